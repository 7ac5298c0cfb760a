package services

import (
	"context"
	"errors"
	"testing"

	"amora_server/models"
)

func coord(v float64) *float64 { return &v }

type fakeDirectory struct {
	profiles map[string]models.UserProfile
}

func (f *fakeDirectory) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeDirectory) FindByGenders(_ context.Context, genders []string, exclude map[string]struct{}, _ int) ([]models.UserProfile, error) {
	wanted := make(map[string]struct{}, len(genders))
	for _, g := range genders {
		wanted[g] = struct{}{}
	}
	var out []models.UserProfile
	for _, p := range f.profiles {
		if _, skip := exclude[p.UserID]; skip {
			continue
		}
		if _, ok := wanted[p.Gender]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubSwipes struct {
	recorded   []models.Swipe
	recordErr  error
	reciprocal map[string]bool
	swiped     map[string]struct{}
	history    []models.Swipe
	likers     []models.Swipe
}

func (s *stubSwipes) Record(_ context.Context, swipe models.Swipe) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, swipe)
	return nil
}

func (s *stubSwipes) HasReciprocalLike(_ context.Context, actorID, targetID string) (bool, error) {
	return s.reciprocal[actorID+"|"+targetID], nil
}

func (s *stubSwipes) SwipedTargets(_ context.Context, _ string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for id := range s.swiped {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *stubSwipes) HistoryFor(_ context.Context, _, actionFilter string, _ int) ([]models.Swipe, error) {
	if actionFilter == "" {
		return s.history, nil
	}
	var out []models.Swipe
	for _, sw := range s.history {
		if sw.Action == actionFilter {
			out = append(out, sw)
		}
	}
	return out, nil
}

func (s *stubSwipes) LikersOf(_ context.Context, _ string) ([]models.Swipe, error) {
	return s.likers, nil
}

type stubMatchMaker struct {
	calls   int
	match   *models.Match
	makeErr error
}

func (m *stubMatchMaker) CreateMatch(_ context.Context, userIDA, userIDB string) (*models.Match, error) {
	m.calls++
	if m.makeErr != nil {
		return nil, m.makeErr
	}
	if m.match != nil {
		return m.match, nil
	}
	return &models.Match{MatchID: "m-1", UserA: userIDA, UserB: userIDB, Status: models.MatchStatusActive}, nil
}

type stubNotifier struct {
	sent []string
}

func (n *stubNotifier) Send(_ context.Context, _, kind string, _ map[string]string) error {
	n.sent = append(n.sent, kind)
	return nil
}

type stubPublisher struct {
	events []string
}

func (p *stubPublisher) Publish(userID, event string, _ interface{}) {
	p.events = append(p.events, userID+":"+event)
}

func newDiscovery(dir *fakeDirectory, swipes *stubSwipes, maker *stubMatchMaker) *DiscoveryService {
	return &DiscoveryService{
		Profiles: dir,
		Swipes:   swipes,
		Matches:  maker,
		Notify:   &stubNotifier{},
		Realtime: &stubPublisher{},
	}
}

func TestSelectCandidatesActorNotFound(t *testing.T) {
	ds := newDiscovery(&fakeDirectory{profiles: map[string]models.UserProfile{}}, &stubSwipes{}, &stubMatchMaker{})

	_, err := ds.SelectCandidates(context.Background(), "ghost", 10)
	if !errors.Is(err, ErrActorNotFound) {
		t.Fatalf("err = %v, want ErrActorNotFound", err)
	}
}

func TestSelectCandidatesExcludesSelfAndSwiped(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"alice": {UserID: "alice", Gender: models.GenderFemale},
		"bob":   {UserID: "bob", Gender: models.GenderMale},
		"carl":  {UserID: "carl", Gender: models.GenderMale},
	}}
	swipes := &stubSwipes{swiped: map[string]struct{}{"bob": {}}}
	ds := newDiscovery(dir, swipes, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "alice", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "carl" {
		t.Fatalf("candidates = %+v, want only carl", got)
	}
}

func TestSelectCandidatesTierOrderingForBinaryActor(t *testing.T) {
	// Actor in Paris. near: opposite gender 1 km away with a shared
	// interest. far: opposite gender ~800 km away, no shared interest.
	// enby: nonbinary. same: same gender.
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor": {UserID: "actor", Gender: models.GenderMale, Latitude: coord(48.8566), Longitude: coord(2.3522), Interests: []string{"hiking"}},
		"near":  {UserID: "near", Gender: models.GenderFemale, Latitude: coord(48.86), Longitude: coord(2.36), Interests: []string{"hiking"}},
		"far":   {UserID: "far", Gender: models.GenderFemale, Latitude: coord(43.2965), Longitude: coord(5.3698), Interests: []string{"chess"}},
		"enby":  {UserID: "enby", Gender: models.GenderNonbinary},
		"same":  {UserID: "same", Gender: models.GenderMale},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "actor", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, c := range got {
		order = append(order, c.UserID)
	}
	want := []string{"near", "far", "enby", "same"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if got[0].Tier >= got[1].Tier {
		t.Fatalf("near (tier %d) must outrank far (tier %d)", got[0].Tier, got[1].Tier)
	}
}

func TestSelectCandidatesDedupKeepsBestTier(t *testing.T) {
	// near qualifies for the close-with-shared-interest tier and every
	// relaxation after it; she must appear once with the best tier.
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor": {UserID: "actor", Gender: models.GenderFemale, Latitude: coord(48.8566), Longitude: coord(2.3522), Interests: []string{"hiking"}},
		"near":  {UserID: "near", Gender: models.GenderMale, Latitude: coord(48.86), Longitude: coord(2.36), Interests: []string{"hiking"}},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	// Limit above what one tier yields forces later tiers to run.
	got, err := ds.SelectCandidates(context.Background(), "actor", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Tier != 0 {
		t.Fatalf("tier = %d, want 0", got[0].Tier)
	}
}

func TestSelectCandidatesActorWithoutLocation(t *testing.T) {
	// Without actor coordinates every distance is unknown, so the
	// proximity tiers yield nothing. Opposite-gender candidates still
	// surface through the any-distance tier, ahead of nonbinary and
	// same-gender users.
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor": {UserID: "actor", Gender: models.GenderMale},
		"her":   {UserID: "her", Gender: models.GenderFemale, Latitude: coord(48.86), Longitude: coord(2.36)},
		"him":   {UserID: "him", Gender: models.GenderMale},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "actor", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].UserID != "her" || got[1].UserID != "him" {
		t.Fatalf("order = %s, %s; want her before him", got[0].UserID, got[1].UserID)
	}
}

func TestSelectCandidatesNonbinaryLadder(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor": {UserID: "actor", Gender: models.GenderNonbinary, Latitude: coord(48.8566), Longitude: coord(2.3522)},
		"enby":  {UserID: "enby", Gender: models.GenderNonbinary},
		"near":  {UserID: "near", Gender: models.GenderFemale, Latitude: coord(48.86), Longitude: coord(2.36)},
		"far":   {UserID: "far", Gender: models.GenderMale, Latitude: coord(40.7128), Longitude: coord(-74.0060)},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "actor", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, c := range got {
		order = append(order, c.UserID)
	}
	want := []string{"enby", "near", "far"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSelectCandidatesDrainsTierBeforeTruncating(t *testing.T) {
	// Three same-tier candidates against a limit of 2: the full tier is
	// ranked first, then cut, so the two closest win.
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor":   {UserID: "actor", Gender: models.GenderMale, Latitude: coord(48.8566), Longitude: coord(2.3522), Interests: []string{"hiking"}},
		"closest": {UserID: "closest", Gender: models.GenderFemale, Latitude: coord(48.857), Longitude: coord(2.353), Interests: []string{"hiking"}},
		"close":   {UserID: "close", Gender: models.GenderFemale, Latitude: coord(48.88), Longitude: coord(2.40), Interests: []string{"hiking"}},
		"edge":    {UserID: "edge", Gender: models.GenderFemale, Latitude: coord(49.1), Longitude: coord(2.6), Interests: []string{"hiking"}},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "actor", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].UserID != "closest" || got[1].UserID != "close" {
		t.Fatalf("order = %s, %s; want closest, close", got[0].UserID, got[1].UserID)
	}
}

func TestSelectCandidatesEmptyFeed(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"actor": {UserID: "actor", Gender: models.GenderFemale},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})

	got, err := ds.SelectCandidates(context.Background(), "actor", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want empty feed", len(got))
	}
}

func TestRecordSwipeValidation(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"a": {UserID: "a", Gender: models.GenderMale},
		"b": {UserID: "b", Gender: models.GenderFemale},
	}}
	ds := newDiscovery(dir, &stubSwipes{}, &stubMatchMaker{})
	ctx := context.Background()

	if _, err := ds.RecordSwipe(ctx, "a", "b", "wink"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("invalid action: err = %v, want ErrInvalidAction", err)
	}
	if _, err := ds.RecordSwipe(ctx, "a", "a", models.SwipeActionLike); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("self swipe: err = %v, want ErrSelfTarget", err)
	}
	if _, err := ds.RecordSwipe(ctx, "ghost", "b", models.SwipeActionLike); !errors.Is(err, ErrActorNotFound) {
		t.Fatalf("missing actor: err = %v, want ErrActorNotFound", err)
	}
	if _, err := ds.RecordSwipe(ctx, "a", "ghost", models.SwipeActionLike); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("missing target: err = %v, want ErrTargetNotFound", err)
	}
}

func TestRecordSwipeDuplicateRejected(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"a": {UserID: "a", Gender: models.GenderMale},
		"b": {UserID: "b", Gender: models.GenderFemale},
	}}
	swipes := &stubSwipes{recordErr: ErrAlreadySwiped}
	ds := newDiscovery(dir, swipes, &stubMatchMaker{})

	_, err := ds.RecordSwipe(context.Background(), "a", "b", models.SwipeActionPass)
	if !errors.Is(err, ErrAlreadySwiped) {
		t.Fatalf("err = %v, want ErrAlreadySwiped", err)
	}
}

func TestRecordSwipePassNeverMatches(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"a": {UserID: "a", Gender: models.GenderMale},
		"b": {UserID: "b", Gender: models.GenderFemale},
	}}
	swipes := &stubSwipes{reciprocal: map[string]bool{"a|b": true}}
	maker := &stubMatchMaker{}
	ds := newDiscovery(dir, swipes, maker)

	result, err := ds.RecordSwipe(context.Background(), "a", "b", models.SwipeActionPass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsMatch || maker.calls != 0 {
		t.Fatalf("pass must not consult the match maker (calls=%d)", maker.calls)
	}
}

func TestRecordSwipeMutualLikeFormsMatch(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"a": {UserID: "a", Gender: models.GenderMale, PushToken: "tok-a"},
		"b": {UserID: "b", Gender: models.GenderFemale, PushToken: "tok-b"},
	}}
	swipes := &stubSwipes{reciprocal: map[string]bool{"a|b": true}}
	maker := &stubMatchMaker{}
	publisher := &stubPublisher{}
	ds := newDiscovery(dir, swipes, maker)
	ds.Realtime = publisher

	result, err := ds.RecordSwipe(context.Background(), "a", "b", models.SwipeActionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsMatch || result.Match == nil {
		t.Fatalf("result = %+v, want a match", result)
	}
	if maker.calls != 1 {
		t.Fatalf("match maker calls = %d, want 1", maker.calls)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("realtime events = %v, want both sides notified", publisher.events)
	}
}

func TestRecordSwipeMatchFailureKeepsSwipe(t *testing.T) {
	dir := &fakeDirectory{profiles: map[string]models.UserProfile{
		"a": {UserID: "a", Gender: models.GenderMale},
		"b": {UserID: "b", Gender: models.GenderFemale},
	}}
	swipes := &stubSwipes{reciprocal: map[string]bool{"a|b": true}}
	maker := &stubMatchMaker{makeErr: errors.New("storage down")}
	ds := newDiscovery(dir, swipes, maker)

	result, err := ds.RecordSwipe(context.Background(), "a", "b", models.SwipeActionLike)
	if err != nil {
		t.Fatalf("swipe must survive match failure, got %v", err)
	}
	if result.IsMatch {
		t.Fatal("IsMatch must be false when creation failed")
	}
	if len(swipes.recorded) != 1 {
		t.Fatalf("recorded swipes = %d, want 1", len(swipes.recorded))
	}
}

func TestSwipeHistoryRejectsUnknownFilter(t *testing.T) {
	ds := newDiscovery(&fakeDirectory{profiles: map[string]models.UserProfile{}}, &stubSwipes{}, &stubMatchMaker{})

	_, err := ds.SwipeHistory(context.Background(), "a", "wink")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
}
