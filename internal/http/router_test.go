package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"vote-board/internal/domain/comment"
	"vote-board/internal/domain/poll"
	"vote-board/internal/domain/vote"
	"vote-board/internal/worker"
)

type testCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*comment.Comment
	order    []string
}

func newTestCommentRepo() *testCommentRepo {
	return &testCommentRepo{comments: make(map[string]*comment.Comment)}
}

func (r *testCommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyComment := *c
	r.comments[c.ID] = &copyComment
	r.order = append(r.order, c.ID)
	return nil
}

func (r *testCommentRepo) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, comment.ErrNotFound
	}
	copyComment := *c
	copyComment.Likes = append([]string(nil), c.Likes...)
	return &copyComment, nil
}

func (r *testCommentRepo) ListByPoll(ctx context.Context, voteID string) ([]comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []comment.Comment
	for _, id := range r.order {
		if c := r.comments[id]; c != nil && c.VoteID == voteID {
			res = append(res, *c)
		}
	}
	return res, nil
}

func (r *testCommentRepo) Update(ctx context.Context, c *comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[c.ID]; !ok {
		return comment.ErrNotFound
	}
	copyComment := *c
	r.comments[c.ID] = &copyComment
	return nil
}

func (r *testCommentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return comment.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *testCommentRepo) CountByPoll(ctx context.Context, voteID string) (int, error) {
	cs, _ := r.ListByPoll(ctx, voteID)
	return len(cs), nil
}

func (r *testCommentRepo) deleteByPoll(voteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.VoteID == voteID {
			delete(r.comments, id)
		}
	}
}

type testPollRepo struct {
	mu       sync.Mutex
	polls    map[string]*poll.Poll
	order    []string
	comments *testCommentRepo
}

func newTestPollRepo(comments *testCommentRepo) *testPollRepo {
	return &testPollRepo{polls: make(map[string]*poll.Poll), comments: comments}
}

func (r *testPollRepo) Create(ctx context.Context, p *poll.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyPoll := *p
	r.polls[p.ID] = &copyPoll
	r.order = append(r.order, p.ID)
	return nil
}

func (r *testPollRepo) GetByID(ctx context.Context, id string) (*poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, poll.ErrNotFound
	}
	copyPoll := *p
	copyPoll.Options = append([]poll.Option(nil), p.Options...)
	copyPoll.VoteRecords = append([]poll.VoteRecord(nil), p.VoteRecords...)
	return &copyPoll, nil
}

func (r *testPollRepo) List(ctx context.Context) ([]poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]poll.Poll, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		res = append(res, *r.polls[r.order[i]])
	}
	return res, nil
}

func (r *testPollRepo) Update(ctx context.Context, p *poll.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[p.ID]; !ok {
		return poll.ErrNotFound
	}
	copyPoll := *p
	r.polls[p.ID] = &copyPoll
	return nil
}

func (r *testPollRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.polls[id]; !ok {
		r.mu.Unlock()
		return poll.ErrNotFound
	}
	delete(r.polls, id)
	r.mu.Unlock()
	r.comments.deleteByPoll(id)
	return nil
}

func setupServer(t *testing.T) (*httptest.Server, *testPollRepo, *testCommentRepo, func()) {
	t.Helper()
	commentRepo := newTestCommentRepo()
	pollRepo := newTestPollRepo(commentRepo)

	pollSvc := poll.NewService(pollRepo, commentRepo)
	voteSvc := vote.NewService(pollRepo)
	commentSvc := comment.NewService(commentRepo)
	voteCh := make(chan worker.VoteEvent, 100)

	server := httptest.NewServer(NewRouter(pollSvc, voteSvc, commentSvc, voteCh, nil))
	cleanup := func() {
		server.Close()
		close(voteCh)
	}
	return server, pollRepo, commentRepo, cleanup
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, func()) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp, func() { resp.Body.Close() }
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func createPollViaAPI(t *testing.T, serverURL string, body map[string]any) poll.Poll {
	t.Helper()
	resp, done := doJSON(t, http.MethodPost, serverURL+"/votes", body)
	defer done()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create poll: expected 201, got %d", resp.StatusCode)
	}
	return decode[poll.Poll](t, resp)
}

func TestCreateAndListPolls(t *testing.T) {
	server, _, _, cleanup := setupServer(t)
	defer cleanup()

	resp, done := doJSON(t, http.MethodPost, server.URL+"/votes", map[string]any{
		"title":   "only one",
		"options": []string{"A"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for one option, got %d", resp.StatusCode)
	}
	done()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":    "どっち？",
		"options":  []string{"A", "B"},
		"authorId": "alice",
	})
	if created.ID == "" || len(created.Options) != 2 {
		t.Fatalf("unexpected created poll: %+v", created)
	}
	if !created.ShowAnalytics {
		t.Fatalf("showAnalytics should default to true")
	}

	createPollViaAPI(t, server.URL, map[string]any{
		"title":     "secret",
		"options":   []string{"A", "B"},
		"isPrivate": true,
	})

	resp, done = doJSON(t, http.MethodGet, server.URL+"/votes", nil)
	defer done()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	polls := decode[[]poll.Poll](t, resp)
	if len(polls) != 1 || polls[0].ID != created.ID {
		t.Fatalf("expected the private poll excluded from listing, got %+v", polls)
	}
}

func TestGetPollNotFound(t *testing.T) {
	server, _, _, cleanup := setupServer(t)
	defer cleanup()

	resp, done := doJSON(t, http.MethodGet, server.URL+"/votes/nope", nil)
	defer done()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestVoteAndChangeVote(t *testing.T) {
	server, _, _, cleanup := setupServer(t)
	defer cleanup()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":   "A or B",
		"options": []string{"A", "B"},
	})

	resp, done := doJSON(t, http.MethodPost, server.URL+"/votes/"+created.ID+"/vote", map[string]any{
		"optionId": created.Options[0].ID,
		"userId":   "u1",
		"age":      "20代",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vote: expected 200, got %d", resp.StatusCode)
	}
	updated := decode[poll.Poll](t, resp)
	done()
	if updated.Options[0].Votes != 1 || len(updated.VoteRecords) != 1 {
		t.Fatalf("unexpected poll after vote: %+v", updated)
	}

	resp, done = doJSON(t, http.MethodPost, server.URL+"/votes/"+created.ID+"/vote", map[string]any{
		"optionId": created.Options[1].ID,
		"userId":   "u1",
	})
	defer done()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-vote: expected 200, got %d", resp.StatusCode)
	}
	updated = decode[poll.Poll](t, resp)
	if updated.Options[0].Votes != 0 || updated.Options[1].Votes != 1 {
		t.Fatalf("re-vote must move the tally: %+v", updated.Options)
	}
	if len(updated.VoteRecords) != 1 || updated.VoteRecords[0].OptionID != created.Options[1].ID {
		t.Fatalf("expected a single live record on the new option: %+v", updated.VoteRecords)
	}
}

func TestVoteValidation(t *testing.T) {
	server, _, _, cleanup := setupServer(t)
	defer cleanup()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":   "A or B",
		"options": []string{"A", "B"},
	})

	resp, done := doJSON(t, http.MethodPost, server.URL+"/votes/"+created.ID+"/vote", map[string]any{
		"userId": "u1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without optionId, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodPost, server.URL+"/votes/"+created.ID+"/vote", map[string]any{
		"optionId": "unknown",
		"userId":   "u1",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown option, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodPost, server.URL+"/votes/nope/vote", map[string]any{
		"optionId": "x",
		"userId":   "u1",
	})
	defer done()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown poll, got %d", resp.StatusCode)
	}
}

func TestDeletePollCascades(t *testing.T) {
	server, pollRepo, commentRepo, cleanup := setupServer(t)
	defer cleanup()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":    "to delete",
		"options":  []string{"A", "B"},
		"authorId": "alice",
	})

	resp, done := doJSON(t, http.MethodPost, server.URL+"/votes/"+created.ID+"/comments", map[string]any{
		"userId":   "bob",
		"userName": "Bob",
		"content":  "first!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("comment: expected 201, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodDelete, server.URL+"/votes/"+created.ID+"/delete", map[string]any{
		"userId": "mallory",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author, got %d", resp.StatusCode)
	}
	done()
	if _, err := pollRepo.GetByID(context.Background(), created.ID); err != nil {
		t.Fatalf("poll must survive a forbidden delete: %v", err)
	}
	if n, _ := commentRepo.CountByPoll(context.Background(), created.ID); n != 1 {
		t.Fatalf("comments must survive a forbidden delete, got %d", n)
	}

	resp, done = doJSON(t, http.MethodDelete, server.URL+"/votes/"+created.ID+"/delete", map[string]any{
		"userId": "alice",
	})
	defer done()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("author delete: expected 200, got %d", resp.StatusCode)
	}
	if _, err := pollRepo.GetByID(context.Background(), created.ID); err == nil {
		t.Fatalf("poll should be gone")
	}
	if n, _ := commentRepo.CountByPoll(context.Background(), created.ID); n != 0 {
		t.Fatalf("comments should cascade, %d left", n)
	}
}

func TestCommentEndpoints(t *testing.T) {
	server, _, _, cleanup := setupServer(t)
	defer cleanup()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":   "talk about it",
		"options": []string{"A", "B"},
	})
	base := server.URL + "/votes/" + created.ID + "/comments"

	resp, done := doJSON(t, http.MethodPost, base, map[string]any{
		"userId": "u1", "userName": "User One",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without content, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodPost, base, map[string]any{
		"userId": "u1", "userName": "User One", "content": "面白い", "needsReply": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	c := decode[comment.Comment](t, resp)
	done()
	if !c.NeedsReply {
		t.Fatalf("needsReply should persist from creation")
	}

	resp, done = doJSON(t, http.MethodGet, base, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", resp.StatusCode)
	}
	comments := decode[[]comment.Comment](t, resp)
	done()
	if len(comments) != 1 || comments[0].ID != c.ID {
		t.Fatalf("unexpected comment list: %+v", comments)
	}

	// like toggle pair returns to the unliked state
	likeURL := server.URL + "/comments/" + c.ID + "/like"
	resp, done = doJSON(t, http.MethodPost, likeURL, map[string]any{"userId": "u2"})
	liked := decode[comment.Comment](t, resp)
	done()
	if len(liked.Likes) != 1 {
		t.Fatalf("expected one like, got %+v", liked.Likes)
	}
	resp, done = doJSON(t, http.MethodPost, likeURL, map[string]any{"userId": "u2"})
	unliked := decode[comment.Comment](t, resp)
	done()
	if len(unliked.Likes) != 0 {
		t.Fatalf("expected like removed, got %+v", unliked.Likes)
	}

	editURL := server.URL + "/comments/" + c.ID + "/edit"
	resp, done = doJSON(t, http.MethodPost, editURL, map[string]any{
		"userId": "u2", "content": "hijack",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner edit, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodPost, editURL, map[string]any{
		"userId": "u1", "content": "edited",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner edit: expected 200, got %d", resp.StatusCode)
	}
	payload := decode[map[string]json.RawMessage](t, resp)
	done()
	var edited comment.Comment
	if err := json.Unmarshal(payload["comment"], &edited); err != nil {
		t.Fatalf("decode edited comment: %v", err)
	}
	if edited.Content != "edited" || edited.UpdatedAt == nil {
		t.Fatalf("unexpected edited comment: %+v", edited)
	}

	replyURL := server.URL + "/comments/" + c.ID + "/needs-reply"
	resp, done = doJSON(t, http.MethodPost, replyURL, map[string]any{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without needsReply, got %d", resp.StatusCode)
	}
	done()
	resp, done = doJSON(t, http.MethodPost, replyURL, map[string]any{"needsReply": false})
	toggled := decode[comment.Comment](t, resp)
	done()
	if toggled.NeedsReply {
		t.Fatalf("needsReply should now be false")
	}

	deleteURL := server.URL + "/comments/" + c.ID + "/delete"
	resp, done = doJSON(t, http.MethodDelete, deleteURL, map[string]any{"userId": "u2"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", resp.StatusCode)
	}
	done()
	resp, done = doJSON(t, http.MethodDelete, deleteURL, map[string]any{"userId": "u1"})
	defer done()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", resp.StatusCode)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	server, pollRepo, _, cleanup := setupServer(t)
	defer cleanup()

	created := createPollViaAPI(t, server.URL, map[string]any{
		"title":         "hidden analytics",
		"options":       []string{"A", "B"},
		"authorId":      "alice",
		"showAnalytics": false,
	})

	// seed records directly, the vote endpoint is rate limited per IP
	p, err := pollRepo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get poll: %v", err)
	}
	p.Options[0].Votes = 2
	p.Options[1].Votes = 1
	p.VoteRecords = []poll.VoteRecord{
		{UserID: "u1", OptionID: p.Options[0].ID, Age: "20代", Timestamp: time.Now()},
		{UserID: "u2", OptionID: p.Options[1].ID, Age: "20代", Timestamp: time.Now()},
		{UserID: "u3", OptionID: p.Options[0].ID, Age: "30代", Timestamp: time.Now()},
	}
	if err := pollRepo.Update(context.Background(), p); err != nil {
		t.Fatalf("update poll: %v", err)
	}

	url := server.URL + "/votes/" + created.ID + "/analytics"
	resp, done := doJSON(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author viewer, got %d", resp.StatusCode)
	}
	done()

	resp, done = doJSON(t, http.MethodGet, url+"?userId=alice", nil)
	defer done()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("author should see analytics, got %d", resp.StatusCode)
	}

	var breakdowns []struct {
		QuestionID string `json:"questionId"`
		Buckets    []struct {
			Value string `json:"value"`
			Total int    `json:"total"`
		} `json:"buckets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&breakdowns); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if len(breakdowns) != 1 || breakdowns[0].QuestionID != "age" {
		t.Fatalf("expected one age breakdown, got %+v", breakdowns)
	}
	if len(breakdowns[0].Buckets) != 2 || breakdowns[0].Buckets[0].Total != 2 {
		t.Fatalf("unexpected buckets: %+v", breakdowns[0].Buckets)
	}
}
