package constants

// Transport kinds for the MCP client.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Auth verifier modes.
const (
	AuthModeRemote = "remote"
	AuthModeStatic = "static"
	AuthModeNone   = "none"
)

// Tool names exposed by the external LinkedIn MCP server.
const (
	ToolPersonProfile  = "get_person_profile"
	ToolCompanyProfile = "get_company_profile"
	ToolCompanyPosts   = "get_company_posts"
	ToolSearchJobs     = "search_jobs"
	ToolJobDetails     = "get_job_details"
	ToolCloseSession   = "close_session"
)
