package proxy

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/talentwire/linkedin-mcp-bridge/internal/linkedin"
)

type searchRequest struct {
	Keywords   []string `json:"keywords"`
	Location   string   `json:"location,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	TimePosted string   `json:"time_posted,omitempty"`
}

// searchResponse keeps the shape downstream consumers already parse.
type searchResponse struct {
	Status string                 `json:"status"`
	Count  int                    `json:"count"`
	Jobs   []*linkedin.JobDetails `json:"jobs"`
}

var jobIDPattern = regexp.MustCompile(`view/(\d+)`)

// handleSearch aggregates job results across keywords. A failing keyword is
// logged and skipped so one bad query does not sink the whole batch, and a
// small delay between keywords keeps the scrape under LinkedIn's radar.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Keywords) == 0 {
		writeError(w, http.StatusBadRequest, "keywords must not be empty")
		return
	}

	start := time.Now()
	jobs := make([]*linkedin.JobDetails, 0)

	err := h.dialer.WithSession(r.Context(), func(b Backend) error {
		for i, keyword := range req.Keywords {
			if i > 0 && h.searchDelay > 0 {
				select {
				case <-r.Context().Done():
					return r.Context().Err()
				case <-time.After(h.searchDelay):
				}
			}

			found, err := h.searchKeyword(r.Context(), b, keyword, req)
			if err != nil {
				h.logger.Warn("keyword search failed", "keyword", keyword, "error", err)
				continue
			}
			jobs = append(jobs, found...)
		}
		return nil
	})
	if err != nil {
		h.record(r, "tool_call", "search_jobs", "error", err.Error(), time.Since(start))
		writeError(w, statusFor(err), err.Error())
		return
	}

	h.record(r, "tool_call", "search_jobs", "success", "", time.Since(start))
	writeJSON(w, http.StatusOK, searchResponse{Status: "success", Count: len(jobs), Jobs: jobs})
}

// searchKeyword runs one keyword search and enriches each returned URL with
// its job details. Detail failures degrade to a URL-only entry.
func (h *Handler) searchKeyword(ctx context.Context, b Backend, keyword string, req searchRequest) ([]*linkedin.JobDetails, error) {
	result, err := b.SearchJobs(ctx, linkedin.JobSearchParams{
		Keywords:   keyword,
		Location:   req.Location,
		Limit:      req.Limit,
		TimePosted: req.TimePosted,
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]*linkedin.JobDetails, 0, len(result.JobURLs))
	for _, jobURL := range result.JobURLs {
		if jobIDPattern.FindStringSubmatch(jobURL) == nil {
			h.logger.Debug("skipping job url without id", "url", jobURL)
			continue
		}
		details, err := b.GetJobDetails(ctx, jobURL)
		if err != nil {
			h.logger.Warn("job details fetch failed", "url", jobURL, "error", err)
			jobs = append(jobs, &linkedin.JobDetails{URL: jobURL})
			continue
		}
		jobs = append(jobs, details)
	}
	return jobs, nil
}
