package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/storage"
)

// memStore is an in-memory stand-in for the postgres repositories. Transactions
// run one at a time and their match and set writes are discarded when fn fails.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	teams    map[int]models.Team
	seasons  map[int]models.Season
	leagues  map[int]models.League
	rulesets map[int]models.Ruleset
	matches  map[int]models.Match
	sets     map[int][]models.Set

	defaultRulesetID int
	nextID           int

	failTeams error
	published []memEvent
}

type memEvent struct {
	room      string
	eventType string
	payload   interface{}
}

func newMemStore() *memStore {
	return &memStore{
		teams:    make(map[int]models.Team),
		seasons:  make(map[int]models.Season),
		leagues:  make(map[int]models.League),
		rulesets: make(map[int]models.Ruleset),
		matches:  make(map[int]models.Match),
		sets:     make(map[int][]models.Set),
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

type memSnapshot struct {
	matches map[int]models.Match
	sets    map[int][]models.Set
}

func (m *memStore) WithinTx(ctx context.Context, _ *sql.TxOptions, fn func(exec repositories.SQLExecutor) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snap := memSnapshot{matches: make(map[int]models.Match, len(m.matches)), sets: make(map[int][]models.Set, len(m.sets))}
	for k, v := range m.matches {
		snap.matches[k] = v
	}
	for k, v := range m.sets {
		snap.sets[k] = v
	}
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.matches, m.sets = snap.matches, snap.sets
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Publish(room string, eventType string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, memEvent{room: room, eventType: eventType, payload: payload})
}

func (m *memStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.published))
	for i, e := range m.published {
		out[i] = e.eventType
	}
	return out
}

func (m *memStore) addTeam(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.teams[id] = models.Team{ID: id, Name: name}
	return id
}

func (m *memStore) addLeague(rulesetID *int) models.League {
	m.mu.Lock()
	defer m.mu.Unlock()
	seasonID := m.id()
	m.seasons[seasonID] = models.Season{ID: seasonID, Name: "S", Mode: models.SeasonModeLeague}
	l := models.League{ID: m.id(), SeasonID: seasonID, Name: "L", RulesetID: rulesetID}
	m.leagues[l.ID] = l
	return l
}

func (m *memStore) addMatch(leagueID, home, away int, status models.MatchStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.matches[id] = models.Match{ID: id, LeagueID: leagueID, SeasonID: m.leagues[leagueID].SeasonID, HomeTeamID: home, AwayTeamID: away, Status: status}
	return id
}

func (m *memStore) match(id int) models.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches[id]
}

type memTeams struct{ *memStore }

func (r memTeams) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team.ID = r.id()
	r.teams[team.ID] = *team
	return nil
}

func (r memTeams) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (r memTeams) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTeams != nil {
		return nil, r.failTeams
	}
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTeams) ListIDs(ctx context.Context, exec repositories.SQLExecutor) ([]int, error) {
	teams, err := r.List(ctx, exec)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids, nil
}

type memSeasons struct{ *memStore }

func (r memSeasons) Create(_ context.Context, _ repositories.SQLExecutor, season *models.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	season.ID = r.id()
	r.seasons[season.ID] = *season
	return nil
}

func (r memSeasons) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.seasons[id]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	return &s, nil
}

type memLeagues struct{ *memStore }

func (r memLeagues) Create(_ context.Context, _ repositories.SQLExecutor, league *models.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seasons[league.SeasonID]; !ok {
		return repositories.ErrLeagueSeasonInvalid
	}
	league.ID = r.id()
	r.leagues[league.ID] = *league
	return nil
}

func (r memLeagues) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	return &l, nil
}

type memRulesets struct{ *memStore }

func (r memRulesets) Create(_ context.Context, _ repositories.SQLExecutor, rs *models.Ruleset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs.ID = r.id()
	r.rulesets[rs.ID] = *rs
	return nil
}

func (r memRulesets) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Ruleset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs, ok := r.rulesets[id]
	if !ok {
		return nil, repositories.ErrRulesetNotFound
	}
	return &rs, nil
}

func (r memRulesets) GetOrCreateDefault(_ context.Context, _ repositories.SQLExecutor) (*models.Ruleset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultRulesetID == 0 {
		rs := models.DefaultRuleset()
		rs.ID = r.id()
		r.rulesets[rs.ID] = rs
		r.defaultRulesetID = rs.ID
	}
	rs := r.rulesets[r.defaultRulesetID]
	return &rs, nil
}

type memMatches struct{ *memStore }

func (r memMatches) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		if m.HomeTeamID == m.AwayTeamID {
			return repositories.ErrMatchSameTeam
		}
		_, homeOK := r.teams[m.HomeTeamID]
		_, awayOK := r.teams[m.AwayTeamID]
		if !homeOK || !awayOK {
			return repositories.ErrMatchTeamInvalid
		}
		m.ID = r.id()
		r.matches[m.ID] = *m
	}
	return nil
}

func (r memMatches) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r memMatches) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memMatches) ListByLeague(_ context.Context, _ repositories.SQLExecutor, leagueID int, status *models.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, m := range r.matches {
		if m.LeagueID != leagueID || (status != nil && m.Status != *status) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memMatches) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus, winnerID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	if winnerID != nil {
		w := *winnerID
		m.WinnerID = &w
	} else {
		m.WinnerID = nil
	}
	r.matches[id] = m
	return nil
}

func (r memMatches) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	r.matches[id] = m
	return nil
}

type memSets struct {
	*memStore
	failReplace error
}

func (r memSets) Replace(_ context.Context, _ repositories.SQLExecutor, matchID int, sets []models.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReplace != nil {
		return r.failReplace
	}
	if _, ok := r.matches[matchID]; !ok {
		return repositories.ErrSetMatchInvalid
	}
	stored := make([]models.Set, len(sets))
	for i, s := range sets {
		s.MatchID = matchID
		stored[i] = s
	}
	r.sets[matchID] = stored
	return nil
}

func (r memSets) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]models.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Set(nil), r.sets[matchID]...), nil
}

func (r memSets) ListByMatchIDs(_ context.Context, _ repositories.SQLExecutor, matchIDs []int) (map[int][]models.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int][]models.Set, len(matchIDs))
	for _, id := range matchIDs {
		if sets, ok := r.sets[id]; ok {
			out[id] = append([]models.Set(nil), sets...)
		}
	}
	return out, nil
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

var errUploadFailed = errors.New("upload failed")

func (u *memUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = make(map[string][]byte)
	}
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.example.test/" + key
}

type fixture struct {
	store    *memStore
	sets     *memSets
	uploader *memUploader
	leagues  LeagueService
	matches  MatchService
	rulesets RulesetService
}

func newFixture() *fixture {
	store := newMemStore()
	sets := &memSets{memStore: store}
	uploader := &memUploader{}
	f := &fixture{store: store, sets: sets, uploader: uploader}
	f.leagues = NewLeagueService(store, memSeasons{store}, memLeagues{store}, memTeams{store}, memMatches{store}, sets, memRulesets{store}, uploader, store, nil)
	f.matches = NewMatchService(store, memMatches{store}, sets, memLeagues{store}, memRulesets{store}, store, nil)
	f.rulesets = NewRulesetService(memRulesets{store})
	return f
}
