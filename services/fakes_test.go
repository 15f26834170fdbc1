package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/jamietsang/courtlog/models"
	"github.com/jamietsang/courtlog/repositories"
)

// fakeStore is the shared in-memory backing for the fake repositories.
// Slices keep insertion order so tests are deterministic.
type fakeStore struct {
	players     []*models.Player
	teams       []*models.Team
	tournaments []*models.Tournament
	matches     []*models.Match
	shares      []*models.SharedTournament
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (s *fakeStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *fakeStore) visibleTournamentIDs(userID *int) map[int]bool {
	visible := make(map[int]bool)
	for _, t := range s.tournaments {
		if userID == nil || t.UserID == *userID {
			visible[t.ID] = true
		}
	}
	if userID != nil {
		for _, sh := range s.shares {
			if sh.SharedWithID == *userID {
				visible[sh.TournamentID] = true
			}
		}
	}
	return visible
}

// fakeTx satisfies Tx; the fake repositories ignore the executor, so the
// query methods are never called.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	panic("fakeTx: unexpected ExecContext")
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	panic("fakeTx: unexpected QueryContext")
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	panic("fakeTx: unexpected QueryRowContext")
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeTxBeginner struct {
	last *fakeTx
}

func (b *fakeTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	b.last = &fakeTx{}
	return b.last, nil
}

type fakePlayerRepo struct {
	store *fakeStore
}

func (r *fakePlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	p.ID = r.store.id()
	r.store.players = append(r.store.players, p)
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	for _, p := range r.store.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Player, error) {
	for _, p := range r.store.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Player
	for _, p := range r.store.players {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) List(ctx context.Context) ([]*models.Player, error) {
	return append([]*models.Player(nil), r.store.players...), nil
}

type fakeTeamRepo struct {
	store *fakeStore
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Team) error {
	t.ID = r.store.id()
	r.store.teams = append(r.store.teams, t)
	return nil
}

func (r *fakeTeamRepo) FindByPair(ctx context.Context, exec repositories.SQLExecutor, player1ID int, player2ID *int) (*models.Team, error) {
	for _, t := range r.store.teams {
		if pairMatches(t, player1ID, player2ID) {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func pairMatches(t *models.Team, player1ID int, player2ID *int) bool {
	if player2ID == nil {
		return t.Player2ID == nil && t.Player1ID == player1ID
	}
	if t.Player2ID == nil {
		return false
	}
	return (t.Player1ID == player1ID && *t.Player2ID == *player2ID) ||
		(t.Player1ID == *player2ID && *t.Player2ID == player1ID)
}

func (r *fakeTeamRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Team
	for _, t := range r.store.teams {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) ListContainingPlayer(ctx context.Context, playerID int) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.store.teams {
		for _, id := range t.PlayerIDs() {
			if id == playerID {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

type fakeTournamentRepo struct {
	store *fakeStore
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	t.ID = r.store.id()
	r.store.tournaments = append(r.store.tournaments, t)
	return nil
}

func (r *fakeTournamentRepo) GetOwned(ctx context.Context, id, userID int) (*models.Tournament, error) {
	for _, t := range r.store.tournaments {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) ListVisible(ctx context.Context, userID *int) ([]*models.Tournament, error) {
	visible := r.store.visibleTournamentIDs(userID)
	var out []*models.Tournament
	for _, t := range r.store.tournaments {
		if visible[t.ID] {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeTournamentRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Tournament, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.Tournament
	for _, t := range r.store.tournaments {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	for i, t := range r.store.tournaments {
		if t.ID == id {
			r.store.tournaments = append(r.store.tournaments[:i], r.store.tournaments[i+1:]...)
			// Cascade, same as the FK.
			kept := r.store.matches[:0]
			for _, m := range r.store.matches {
				if m.TournamentID != id {
					kept = append(kept, m)
				}
			}
			r.store.matches = kept
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

type fakeMatchRepo struct {
	store *fakeStore
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.store.id()
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now() // mirrors the column default
	}
	r.store.matches = append(r.store.matches, m)
	return nil
}

func (r *fakeMatchRepo) get(id int) (*models.Match, error) {
	for _, m := range r.store.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) GetOwned(ctx context.Context, id, userID int) (*models.Match, error) {
	m, err := r.get(id)
	if err != nil {
		return nil, err
	}
	for _, t := range r.store.tournaments {
		if t.ID == m.TournamentID && t.UserID == userID {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	for i, existing := range r.store.matches {
		if existing.ID == m.ID {
			r.store.matches[i] = m
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	for i, m := range r.store.matches {
		if m.ID == id {
			r.store.matches = append(r.store.matches[:i], r.store.matches[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.store.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListVisible(ctx context.Context, userID *int) ([]*models.Match, error) {
	visible := r.store.visibleTournamentIDs(userID)
	var out []*models.Match
	for _, m := range r.store.matches {
		if visible[m.TournamentID] {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *fakeMatchRepo) ListBetweenTeamSets(ctx context.Context, setA, setB []int) ([]*models.Match, error) {
	inA := make(map[int]bool, len(setA))
	for _, id := range setA {
		inA[id] = true
	}
	inB := make(map[int]bool, len(setB))
	for _, id := range setB {
		inB[id] = true
	}
	var out []*models.Match
	for _, m := range r.store.matches {
		if (inA[m.Team1ID] && inB[m.Team2ID]) || (inB[m.Team1ID] && inA[m.Team2ID]) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	store *fakeStore
	users []*models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
		if existing.Username == u.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	u.ID = r.store.id()
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.LastLogin = &at
	return nil
}

type fakeShareRepo struct {
	store *fakeStore
}

func (r *fakeShareRepo) Create(ctx context.Context, s *models.SharedTournament) error {
	for _, existing := range r.store.shares {
		if existing.TournamentID == s.TournamentID && existing.SharedWithID == s.SharedWithID {
			return repositories.ErrShareConflict
		}
	}
	s.ID = r.store.id()
	s.CreatedAt = time.Now()
	r.store.shares = append(r.store.shares, s)
	return nil
}

func (r *fakeShareRepo) Delete(ctx context.Context, id, ownerID int) error {
	for i, s := range r.store.shares {
		if s.ID == id && s.OwnerID == ownerID {
			r.store.shares = append(r.store.shares[:i], r.store.shares[i+1:]...)
			return nil
		}
	}
	return repositories.ErrShareNotFound
}

func (r *fakeShareRepo) ListByOwner(ctx context.Context, ownerID int) ([]*models.SharedTournament, error) {
	var out []*models.SharedTournament
	for _, s := range r.store.shares {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShareRepo) ListBySharedWith(ctx context.Context, userID int) ([]*models.SharedTournament, error) {
	var out []*models.SharedTournament
	for _, s := range r.store.shares {
		if s.SharedWithID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fixture bundles everything a service test needs.
type fixture struct {
	store          *fakeStore
	tx             *fakeTxBeginner
	playerRepo     *fakePlayerRepo
	teamRepo       *fakeTeamRepo
	tournamentRepo *fakeTournamentRepo
	matchRepo      *fakeMatchRepo
	userRepo       *fakeUserRepo
	shareRepo      *fakeShareRepo
	roster         RosterService
	results        ResultService
	analytics      AnalyticsService
	sharing        SharingService
	auth           AuthService
}

func newFixture() *fixture {
	store := newFakeStore()
	f := &fixture{
		store:          store,
		tx:             &fakeTxBeginner{},
		playerRepo:     &fakePlayerRepo{store: store},
		teamRepo:       &fakeTeamRepo{store: store},
		tournamentRepo: &fakeTournamentRepo{store: store},
		matchRepo:      &fakeMatchRepo{store: store},
		userRepo:       &fakeUserRepo{store: store},
		shareRepo:      &fakeShareRepo{store: store},
	}
	f.roster = NewRosterService(f.playerRepo, f.teamRepo)
	f.results = NewResultService(f.tx, f.roster, f.playerRepo, f.teamRepo, f.tournamentRepo, f.matchRepo)
	f.analytics = NewAnalyticsService(f.playerRepo, f.teamRepo, f.tournamentRepo, f.matchRepo)
	f.sharing = NewSharingService(f.shareRepo, f.tournamentRepo, f.userRepo)
	f.auth = NewAuthService(f.userRepo)
	return f
}
