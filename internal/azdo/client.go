// Package azdo is the Azure DevOps work-item source. It fetches the user
// stories of a sprint iteration and their child tasks through the WIQL and
// work-items REST endpoints, and hands back raw records for normalization.
package azdo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiVersion = "7.1"
	// The work-items endpoint caps a single batch at 200 ids.
	batchSize = 200
)

// Config holds connection settings for one organization/project.
type Config struct {
	Organization string
	Project      string
	Token        string // personal access token
	BaseURL      string // defaults to https://dev.azure.com
	TimeoutMs    int    // per-request, defaults to 30000
	MaxRetries   int    // retries on transport errors
}

// SprintRef identifies the iteration to fetch:
// {project}\{year}\{quarter}\{name}.
type SprintRef struct {
	Name    string
	Year    string
	Quarter string
}

// WorkItem is a raw upstream record, untouched except for field flattening.
type WorkItem struct {
	ID               int
	Title            string
	State            string
	AssignedTo       string // uniqueName (email); empty when unassigned
	OriginalEstimate *float64
	Parent           *int
	AreaPath         string
}

// SprintItems is the full snapshot of one sprint iteration.
type SprintItems struct {
	Stories []WorkItem
	Tasks   []WorkItem
}

// Client talks to the Azure DevOps REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client with defaults filled in.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dev.azure.com"
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 30000
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
	}
}

// FetchSprintItems pulls the user stories of the sprint and the tasks
// parented to them. Fails with ErrNoUserStories when the iteration holds
// no stories; partial snapshots are never returned.
func (c *Client) FetchSprintItems(ctx context.Context, ref SprintRef, team string) (*SprintItems, error) {
	iterationPath := strings.Join([]string{c.cfg.Project, ref.Year, ref.Quarter, ref.Name}, `\`)

	storyIDs, err := c.queryIDs(ctx, storyWIQL(c.cfg.Project, team, iterationPath))
	if err != nil {
		return nil, fmt.Errorf("querying user stories: %w", err)
	}
	if len(storyIDs) == 0 {
		return nil, ErrNoUserStories
	}
	stories, err := c.getWorkItems(ctx, storyIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching user stories: %w", err)
	}
	c.logger.Info("fetched user stories",
		zap.String("sprint", ref.Name), zap.Int("count", len(stories)))

	taskIDs, err := c.queryIDs(ctx, taskWIQL(c.cfg.Project, storyIDs))
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	var tasks []WorkItem
	if len(taskIDs) > 0 {
		tasks, err = c.getWorkItems(ctx, taskIDs)
		if err != nil {
			return nil, fmt.Errorf("fetching tasks: %w", err)
		}
	} else {
		c.logger.Warn("no tasks linked to the sprint's user stories",
			zap.String("sprint", ref.Name))
	}
	c.logger.Info("fetched tasks", zap.String("sprint", ref.Name), zap.Int("count", len(tasks)))

	return &SprintItems{Stories: stories, Tasks: tasks}, nil
}

func storyWIQL(project, team, iterationPath string) string {
	return fmt.Sprintf(`SELECT [System.Id] FROM WorkItems
WHERE [System.TeamProject] = '%s'
AND [System.AreaPath] = '%s'
AND [System.IterationPath] = '%s'
AND [System.WorkItemType] = 'User Story'
ORDER BY [Microsoft.VSTS.Common.StackRank] ASC`, project, team, iterationPath)
}

func taskWIQL(project string, parentIDs []int) string {
	ids := make([]string, len(parentIDs))
	for i, id := range parentIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf(`SELECT [System.Id] FROM WorkItems
WHERE [System.TeamProject] = '%s'
AND [System.WorkItemType] = 'Task'
AND [System.Parent] IN (%s)
ORDER BY [Microsoft.VSTS.Common.StackRank] ASC`, project, strings.Join(ids, ","))
}

type wiqlResponse struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

func (c *Client) queryIDs(ctx context.Context, wiql string) ([]int, error) {
	body, err := json.Marshal(map[string]string{"query": wiql})
	if err != nil {
		return nil, fmt.Errorf("marshaling wiql: %w", err)
	}
	url := fmt.Sprintf("%s/%s/%s/_apis/wit/wiql?api-version=%s",
		c.cfg.BaseURL, c.cfg.Organization, c.cfg.Project, apiVersion)

	var resp wiqlResponse
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}
	ids := make([]int, len(resp.WorkItems))
	for i, wi := range resp.WorkItems {
		ids[i] = wi.ID
	}
	return ids, nil
}

type itemFields struct {
	Title            string   `json:"System.Title"`
	State            string   `json:"System.State"`
	AreaPath         string   `json:"System.AreaPath"`
	OriginalEstimate *float64 `json:"Microsoft.VSTS.Scheduling.OriginalEstimate"`
	Parent           *int     `json:"System.Parent"`
	AssignedTo       *struct {
		UniqueName string `json:"uniqueName"`
	} `json:"System.AssignedTo"`
}

type workItemsResponse struct {
	Value []struct {
		ID     int        `json:"id"`
		Fields itemFields `json:"fields"`
	} `json:"value"`
}

func (c *Client) getWorkItems(ctx context.Context, ids []int) ([]WorkItem, error) {
	var out []WorkItem
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := make([]string, end-start)
		for i, id := range ids[start:end] {
			chunk[i] = strconv.Itoa(id)
		}
		url := fmt.Sprintf("%s/%s/%s/_apis/wit/workitems?ids=%s&api-version=%s",
			c.cfg.BaseURL, c.cfg.Organization, c.cfg.Project,
			strings.Join(chunk, ","), apiVersion)

		var resp workItemsResponse
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
			return nil, err
		}
		for _, v := range resp.Value {
			wi := WorkItem{
				ID:               v.ID,
				Title:            v.Fields.Title,
				State:            v.Fields.State,
				AreaPath:         v.Fields.AreaPath,
				OriginalEstimate: v.Fields.OriginalEstimate,
				Parent:           v.Fields.Parent,
			}
			if v.Fields.AssignedTo != nil {
				wi.AssignedTo = v.Fields.AssignedTo.UniqueName
			}
			out = append(out, wi)
		}
	}
	return out, nil
}

// doJSON performs one authenticated request with transport-level retries.
// Context cancellation and HTTP-level failures are not retried.
func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, v any) error {
	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		lastErr = c.doOnce(ctx, method, url, body, v)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(lastErr, ErrUnauthorized) {
			break
		}
		if !isTransportError(lastErr) {
			break
		}
	}
	if isTransportError(lastErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, lastErr)
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth("", c.cfg.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("azdo returned status %d: %s", resp.StatusCode, truncate(respBody, 300))
	}
	if err := json.Unmarshal(respBody, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr interface{ Timeout() bool }
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
