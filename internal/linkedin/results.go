package linkedin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cast"
)

// ToolResult holds the raw content blocks returned by a tool call. The text
// blocks are preserved verbatim; Decode parses them into typed structures.
type ToolResult struct {
	Texts []string
}

func newToolResult(res *mcp.CallToolResult) *ToolResult {
	out := &ToolResult{}
	if res == nil {
		return out
	}
	for _, block := range res.Content {
		if text, ok := block.(*mcp.TextContent); ok {
			out.Texts = append(out.Texts, text.Text)
		}
	}
	return out
}

// joinedText returns all text blocks concatenated, used for error display.
func (r *ToolResult) joinedText() string {
	return strings.TrimSpace(strings.Join(r.Texts, "\n"))
}

// Decode parses the first text block into v. The scraper occasionally emits
// trailing log noise after the JSON document, so decoding stops at the end of
// the first value instead of requiring the whole block to be JSON.
func (r *ToolResult) Decode(v any) error {
	if r == nil || len(r.Texts) == 0 {
		return fmt.Errorf("tool result has no text content")
	}
	dec := json.NewDecoder(strings.NewReader(r.Texts[0]))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode tool result: %w", err)
	}
	return nil
}

// JSON decodes the first text block into a dynamic value.
func (r *ToolResult) JSON() (any, error) {
	var out any
	if err := r.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalSchema(schema any) (json.RawMessage, error) {
	return json.Marshal(schema)
}

// ToolInfo describes a tool advertised by the external server.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// Experience is a single position on a person profile.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is a single entry in a person's education history.
type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
}

// PersonProfile is the decoded payload of a person-profile fetch.
type PersonProfile struct {
	Name        string       `json:"name"`
	Headline    string       `json:"headline,omitempty"`
	About       string       `json:"about,omitempty"`
	Location    string       `json:"location,omitempty"`
	URL         string       `json:"url,omitempty"`
	OpenToWork  bool         `json:"open_to_work,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
	Skills      []string     `json:"skills,omitempty"`
}

// CompanyProfile is the decoded payload of a company-profile fetch.
type CompanyProfile struct {
	Name          string   `json:"name"`
	Industry      string   `json:"industry,omitempty"`
	Website       string   `json:"website,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	About         string   `json:"about,omitempty"`
	EmployeeCount int      `json:"employee_count,omitempty"`
	Specialties   []string `json:"specialties,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// UnmarshalJSON tolerates the scraper reporting employee_count as a string
// like "10,001+" as well as a number.
func (c *CompanyProfile) UnmarshalJSON(data []byte) error {
	type alias CompanyProfile
	aux := struct {
		*alias
		EmployeeCount any `json:"employee_count,omitempty"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.EmployeeCount = looseInt(aux.EmployeeCount)
	return nil
}

// CompanyPost is a single post on a company feed.
type CompanyPost struct {
	Text     string `json:"text"`
	PostedAt string `json:"posted_at,omitempty"`
	Likes    int    `json:"likes,omitempty"`
	Comments int    `json:"comments,omitempty"`
	URL      string `json:"url,omitempty"`
}

// CompanyPosts is the decoded payload of a company-posts fetch.
type CompanyPosts struct {
	Company string        `json:"company,omitempty"`
	Posts   []CompanyPost `json:"posts"`
}

// UnmarshalJSON accepts either {"posts": [...]} or a bare array of posts.
func (p *CompanyPosts) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &p.Posts)
	}
	type alias CompanyPosts
	return json.Unmarshal(data, (*alias)(p))
}

// JobSearchResult is the decoded payload of a job search.
type JobSearchResult struct {
	JobURLs []string `json:"job_urls"`
}

// UnmarshalJSON accepts either {"job_urls": [...]} or a bare array of URL
// strings, both of which the external server has been observed to emit.
func (r *JobSearchResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		for _, item := range items {
			if s, ok := item.(string); ok {
				r.JobURLs = append(r.JobURLs, s)
			}
		}
		return nil
	}
	type alias JobSearchResult
	return json.Unmarshal(data, (*alias)(r))
}

// JobDetails is the decoded payload of a job-details fetch.
type JobDetails struct {
	JobID          string `json:"job_id,omitempty"`
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	Description    string `json:"description,omitempty"`
	PostedAt       string `json:"posted_at,omitempty"`
	ApplicantCount int    `json:"applicant_count,omitempty"`
	URL            string `json:"url,omitempty"`
}

// UnmarshalJSON tolerates numeric job IDs and string applicant counts.
func (j *JobDetails) UnmarshalJSON(data []byte) error {
	type alias JobDetails
	aux := struct {
		*alias
		JobID          any `json:"job_id,omitempty"`
		ApplicantCount any `json:"applicant_count,omitempty"`
	}{alias: (*alias)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.JobID != nil {
		j.JobID = cast.ToString(aux.JobID)
	}
	j.ApplicantCount = looseInt(aux.ApplicantCount)
	return nil
}

// CloseSessionResult is the confirmation payload of a session close.
type CloseSessionResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// looseInt coerces scraped scalar values ("1,234", 1234, "10,001+") to int,
// returning 0 when nothing numeric can be extracted.
func looseInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, v)
		return cast.ToInt(cleaned)
	default:
		return cast.ToInt(v)
	}
}
