package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"amora_server/models"
	"amora_server/utils"
)

// memMatchRepo is an in-memory MatchRepository with the same uniqueness
// guarantee the real store gets from conditional writes.
type memMatchRepo struct {
	mu      sync.Mutex
	byPair  map[string]models.Match
	creates int
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{byPair: map[string]models.Match{}}
}

func (r *memMatchRepo) CreateIfAbsent(_ context.Context, match models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPair[match.PairKey]; exists {
		return ErrMatchConflict
	}
	r.byPair[match.PairKey] = match
	r.creates++
	return nil
}

func (r *memMatchRepo) GetByPair(_ context.Context, userIDA, userIDB string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.byPair[utils.PairKey(userIDA, userIDB)]
	if !ok {
		return nil, nil
	}
	return &match, nil
}

func (r *memMatchRepo) GetByID(_ context.Context, matchID string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, match := range r.byPair {
		if match.MatchID == matchID {
			m := match
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memMatchRepo) ListActiveForUser(_ context.Context, userID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, match := range r.byPair {
		if match.IsActive() && match.IncludesUser(userID) {
			out = append(out, match)
		}
	}
	return out, nil
}

func (r *memMatchRepo) SetUnmatched(_ context.Context, pairKey, byUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.byPair[pairKey]
	if !ok {
		return errors.New("match not found")
	}
	match.Status = models.MatchStatusUnmatched
	match.UnmatchedBy = byUserID
	match.UnmatchedAt = time.Now().UTC().Format(time.RFC3339)
	r.byPair[pairKey] = match
	return nil
}

func newMatchService(repo *memMatchRepo) *MatchService {
	return &MatchService{
		Matches: repo,
		Profiles: &fakeDirectory{profiles: map[string]models.UserProfile{
			"a": {UserID: "a", Gender: models.GenderMale},
			"b": {UserID: "b", Gender: models.GenderFemale},
		}},
	}
}

func TestCreateMatchIdempotent(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	first, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.MatchID != second.MatchID {
		t.Fatalf("second create returned a new record: %s vs %s", first.MatchID, second.MatchID)
	}
	if repo.creates != 1 {
		t.Fatalf("stored records = %d, want 1", repo.creates)
	}
}

func TestCreateMatchArgumentOrderIrrelevant(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	first, err := ms.CreateMatch(ctx, "b", "a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("reversed create: %v", err)
	}
	if first.MatchID != second.MatchID {
		t.Fatal("reversed arguments must resolve to the same match")
	}
	if first.UserA != "a" || first.UserB != "b" {
		t.Fatalf("participants not canonical: %s, %s", first.UserA, first.UserB)
	}
}

func TestCreateMatchSelfRejected(t *testing.T) {
	ms := newMatchService(newMemMatchRepo())

	_, err := ms.CreateMatch(context.Background(), "a", "a")
	if !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("err = %v, want ErrSelfTarget", err)
	}
}

func TestCreateMatchConcurrentCallsYieldOneRecord(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	const callers = 16
	results := make([]*models.Match, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			match, err := ms.CreateMatch(ctx, "a", "b")
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = match
		}(i)
	}
	wg.Wait()

	if repo.creates != 1 {
		t.Fatalf("stored records = %d, want 1", repo.creates)
	}
	for i, match := range results {
		if match == nil || match.MatchID != results[0].MatchID {
			t.Fatalf("caller %d resolved to a different record", i)
		}
	}
}

func TestUnmatchIsTerminal(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	match, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ms.Unmatch(ctx, match.MatchID, "a"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}

	stored, _ := repo.GetByID(ctx, match.MatchID)
	if stored.Status != models.MatchStatusUnmatched || stored.UnmatchedBy != "a" {
		t.Fatalf("stored = %+v, want unmatched by a", stored)
	}

	// A second unmatch, from either side, hits the terminal state.
	if err := ms.Unmatch(ctx, match.MatchID, "b"); !errors.Is(err, ErrMatchInactive) {
		t.Fatalf("repeat unmatch: err = %v, want ErrMatchInactive", err)
	}
}

func TestUnmatchRequiresParticipant(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	match, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ms.Unmatch(ctx, match.MatchID, "mallory"); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("err = %v, want ErrNotAParticipant", err)
	}
	if err := ms.Unmatch(ctx, "missing", "a"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestCheckMatchWithIgnoresUnmatched(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	match, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	active, err := ms.CheckMatchWith(ctx, "b", "a")
	if err != nil || active == nil {
		t.Fatalf("active check = %v, %v; want the match", active, err)
	}

	if err := ms.Unmatch(ctx, match.MatchID, "a"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	gone, err := ms.CheckMatchWith(ctx, "a", "b")
	if err != nil {
		t.Fatalf("check after unmatch: %v", err)
	}
	if gone != nil {
		t.Fatal("unmatched pair must not report an active match")
	}
}

func TestGetMatchByIDParticipantCheck(t *testing.T) {
	repo := newMemMatchRepo()
	ms := newMatchService(repo)
	ctx := context.Background()

	match, err := ms.CreateMatch(ctx, "a", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := ms.GetMatchByID(ctx, match.MatchID, "mallory"); !errors.Is(err, ErrNotAParticipant) {
		t.Fatalf("err = %v, want ErrNotAParticipant", err)
	}

	summary, err := ms.GetMatchByID(ctx, match.MatchID, "a")
	if err != nil {
		t.Fatalf("participant fetch: %v", err)
	}
	if summary.User.UserID != "b" {
		t.Fatalf("summary shows %s, want the other participant", summary.User.UserID)
	}
}
