// Package teamdeck is the client for the upstream Teamdeck REST API. It is
// the gateway's resource directory (email -> resource) and the backing store
// for every relayed listing and mutation.
package teamdeck

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"tracker-gateway/internal/platform/metrics"
	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

const (
	apiKeyHeader = "X-Api-Key"

	headerTotalCount  = "x-pagination-total-count"
	headerPagesCount  = "x-pagination-page-count"
	headerCurrentPage = "x-pagination-current-page"
	headerPerPage     = "x-pagination-per-page"

	// pageFetchConcurrency bounds parallel page fetches during full
	// traversals so the upstream API is not hammered.
	pageFetchConcurrency = 4
)

// Client calls the Teamdeck REST API. Safe for concurrent use.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records upstream request counters and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRateLimit overrides the outbound request limiter.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient builds a Client for the given base URL and API key. The key is
// injected at construction; the client never reads process configuration.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader(apiKeyHeader, apiKey).
			SetTimeout(15 * time.Second),
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetResourceByEmail looks up the resource account for an email. A miss is a
// normal outcome and returns (nil, nil), not an error.
func (c *Client) GetResourceByEmail(ctx context.Context, email string) (*Resource, error) {
	var resources []Resource
	_, err := c.get(ctx, "resource_by_email", "/resources", map[string]string{"email": email}, &resources)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, nil
	}
	return &resources[0], nil
}

func (c *Client) GetResourceByID(ctx context.Context, id domain.ResourceID) (*Resource, error) {
	var resource Resource
	_, err := c.get(ctx, "resource_by_id", "/resources/"+id.String(), nil, &resource)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (c *Client) GetResourcesPage(ctx context.Context, page uint64) (*Page[Resource], error) {
	return getPage[Resource](ctx, c, "resources_page", "/resources", map[string]string{
		"page": strconv.FormatUint(page, 10),
	})
}

func (c *Client) GetResources(ctx context.Context) ([]Resource, error) {
	return getAll(ctx, c.GetResourcesPage)
}

func (c *Client) GetProjectsPage(ctx context.Context, page uint64) (*Page[Project], error) {
	return getPage[Project](ctx, c, "projects_page", "/projects", map[string]string{
		"page": strconv.FormatUint(page, 10),
	})
}

func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	return getAll(ctx, c.GetProjectsPage)
}

func (c *Client) GetProjectByID(ctx context.Context, id domain.ProjectID) (*Project, error) {
	var project Project
	_, err := c.get(ctx, "project_by_id", "/projects/"+id.String(), nil, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetTimeEntriesPage lists one page of a resource's time entries, optionally
// filtered by date, with tags expanded.
func (c *Client) GetTimeEntriesPage(ctx context.Context, resourceID domain.ResourceID, date *Date, page uint64) (*Page[TimeEntry], error) {
	params := map[string]string{
		"resource_id": resourceID.String(),
		"page":        strconv.FormatUint(page, 10),
		"expand":      "tags",
	}
	if date != nil {
		params["date"] = date.String()
	}
	return getPage[TimeEntry](ctx, c, "time_entries_page", "/time-entries", params)
}

func (c *Client) GetTimeEntries(ctx context.Context, resourceID domain.ResourceID, date *Date) ([]TimeEntry, error) {
	return getAll(ctx, func(ctx context.Context, page uint64) (*Page[TimeEntry], error) {
		return c.GetTimeEntriesPage(ctx, resourceID, date, page)
	})
}

func (c *Client) GetTimeEntryByID(ctx context.Context, id domain.TimeEntryID) (*TimeEntry, error) {
	var entry TimeEntry
	_, err := c.get(ctx, "time_entry_by_id", "/time-entries/"+id.String(), nil, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) CreateTimeEntry(ctx context.Context, body *CreateTimeEntryRequest) (*TimeEntry, error) {
	var entry TimeEntry
	err := c.send(ctx, "create_time_entry", http.MethodPost, "/time-entries", body, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateTimeEntry(ctx context.Context, id domain.TimeEntryID, body *UpdateTimeEntryRequest) (*TimeEntry, error) {
	var entry TimeEntry
	err := c.send(ctx, "update_time_entry", http.MethodPut, "/time-entries/"+id.String(), body, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimeEntryTags replaces the tag set on a time entry.
func (c *Client) UpdateTimeEntryTags(ctx context.Context, id domain.TimeEntryID, tagIDs []domain.TagID) (*TimeEntry, error) {
	var entry TimeEntry
	body := map[string][]domain.TagID{"tag_ids": tagIDs}
	err := c.send(ctx, "update_time_entry_tags", http.MethodPut, "/time-entries/"+id.String()+"/tags", body, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) GetTimeEntryTagsPage(ctx context.Context, page uint64) (*Page[TimeEntryTag], error) {
	return getPage[TimeEntryTag](ctx, c, "time_entry_tags_page", "/time-entry-tags", map[string]string{
		"page": strconv.FormatUint(page, 10),
	})
}

func (c *Client) GetTimeEntryTags(ctx context.Context) ([]TimeEntryTag, error) {
	return getAll(ctx, c.GetTimeEntryTagsPage)
}

// GetCurrentTimer returns the resource's running timer, or (nil, nil) when
// nothing is being tracked right now.
func (c *Client) GetCurrentTimer(ctx context.Context, resourceID domain.ResourceID) (*Timer, error) {
	var timers []Timer
	_, err := c.get(ctx, "current_timer", "/timers", map[string]string{
		"resource_id": resourceID.String(),
	}, &timers)
	if err != nil {
		return nil, err
	}
	for i := range timers {
		if timers[i].Running() {
			return &timers[i], nil
		}
	}
	return nil, nil
}

func (c *Client) GetTimeEntryTagByID(ctx context.Context, id domain.TagID) (*TimeEntryTag, error) {
	var tag TimeEntryTag
	_, err := c.get(ctx, "time_entry_tag_by_id", "/time-entry-tags/"+id.String(), nil, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// get performs an instrumented GET, decoding the JSON body into out.
func (c *Client) get(ctx context.Context, operation, path string, query map[string]string, out any) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "waiting for upstream rate limiter")
	}

	ctx, finish := c.startSpan(ctx, operation, http.MethodGet, path)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		Get(path)
	err = c.wrapResponse(resp, err)
	finish(resp, err)
	return resp, err
}

// send performs an instrumented request with a JSON body.
func (c *Client) send(ctx context.Context, operation, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "waiting for upstream rate limiter")
	}

	ctx, finish := c.startSpan(ctx, operation, method, path)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Execute(method, path)
	err = c.wrapResponse(resp, err)
	finish(resp, err)
	return err
}

func (c *Client) wrapResponse(resp *resty.Response, err error) error {
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "teamdeck api unreachable")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return dErrors.New(dErrors.CodeNotFound, "could not find resource")
	case resp.IsError():
		return dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("teamdeck api returned status %d", resp.StatusCode()))
	}
	return nil
}

// startSpan opens a client span for one upstream call and returns a finish
// callback recording outcome, status and latency.
func (c *Client) startSpan(ctx context.Context, operation, method, path string) (context.Context, func(*resty.Response, error)) {
	tracer := otel.Tracer("teamdeck")
	ctx, span := tracer.Start(ctx, "teamdeck."+operation)
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.target", path),
	)
	start := time.Now()

	return ctx, func(resp *resty.Response, err error) {
		defer span.End()

		outcome := "ok"
		if resp != nil && resp.StatusCode() > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))
		}
		if err != nil {
			outcome = string(dErrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		if c.metrics != nil {
			c.metrics.ObserveUpstream(operation, outcome, time.Since(start).Seconds())
		}
	}
}

// getPage performs a paginated GET and reads the pagination headers.
func getPage[T any](ctx context.Context, c *Client, operation, path string, query map[string]string) (*Page[T], error) {
	var items []T
	resp, err := c.get(ctx, operation, path, query, &items)
	if err != nil {
		return nil, err
	}

	pagination, err := readPaginationInfo(resp.Header())
	if err != nil {
		return nil, err
	}

	return &Page[T]{Items: items, Pagination: pagination}, nil
}

// getAll traverses every page of a listing. The first page reveals the page
// count; remaining pages are fetched concurrently and stitched back in order.
func getAll[T any](ctx context.Context, fetch func(ctx context.Context, page uint64) (*Page[T], error)) ([]T, error) {
	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, err
	}

	pages := first.Pagination.PagesCount
	if pages <= 1 {
		return first.Items, nil
	}

	rest := make([][]T, pages-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageFetchConcurrency)
	for n := uint64(2); n <= pages; n++ {
		g.Go(func() error {
			page, err := fetch(gctx, n)
			if err != nil {
				return err
			}
			rest[n-2] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := first.Items
	for _, pageItems := range rest {
		items = append(items, pageItems...)
	}
	return items, nil
}

func readPaginationInfo(headers http.Header) (PaginationInfo, error) {
	read := func(name string) (uint64, error) {
		raw := headers.Get(name)
		if raw == "" {
			return 0, dErrors.New(dErrors.CodeUpstream,
				fmt.Sprintf("missing %s header value in response", name))
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeUpstream,
				fmt.Sprintf("malformed %s header value", name))
		}
		return v, nil
	}

	var (
		info PaginationInfo
		err  error
	)
	if info.TotalCount, err = read(headerTotalCount); err != nil {
		return info, err
	}
	if info.PagesCount, err = read(headerPagesCount); err != nil {
		return info, err
	}
	if info.CurrentPage, err = read(headerCurrentPage); err != nil {
		return info, err
	}
	if info.ItemsPerPage, err = read(headerPerPage); err != nil {
		return info, err
	}
	return info, nil
}
