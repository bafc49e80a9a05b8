package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/application"
	"jobtrack/internal/domain/job"
	"jobtrack/internal/domain/user"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	txs []*fakeTx
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (d *fakeDB) Ping(context.Context) error                                   { return nil }
func (d *fakeDB) Close() error                                                 { return nil }
func (d *fakeDB) Begin(context.Context) (database.Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) lastTx() *fakeTx {
	if len(d.txs) == 0 {
		return nil
	}
	return d.txs[len(d.txs)-1]
}

type fieldsUpdate struct {
	id     uuid.UUID
	fields job.Fields
}

type mockJobRepo struct {
	jobsByURL map[string]job.Job
	jobsByID  map[uuid.UUID]job.Job
	insertErr error

	// raceJob appears under its URL after a failed insert, simulating a
	// concurrent writer winning the unique-index race.
	raceJob *job.Job

	inserted []job.Job
	updates  []fieldsUpdate
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{
		jobsByURL: make(map[string]job.Job),
		jobsByID:  make(map[uuid.UUID]job.Job),
	}
}

func (m *mockJobRepo) add(j job.Job) {
	m.jobsByURL[j.SourceURL] = j
	m.jobsByID[j.ID] = j
}

func (m *mockJobRepo) GetByID(_ context.Context, _ database.Queryer, id uuid.UUID) (job.Job, error) {
	j, ok := m.jobsByID[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockJobRepo) GetBySourceURL(_ context.Context, _ database.Queryer, sourceURL string) (job.Job, error) {
	j, ok := m.jobsByURL[sourceURL]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockJobRepo) Insert(_ context.Context, _ database.Queryer, j job.Job) (job.Job, error) {
	if m.insertErr != nil {
		if m.raceJob != nil {
			m.add(*m.raceJob)
		}
		return job.Job{}, m.insertErr
	}
	j.ID = uuid.New()
	j.CreatedAt = time.Now().UTC()
	m.add(j)
	m.inserted = append(m.inserted, j)
	return j, nil
}

func (m *mockJobRepo) UpdateFields(_ context.Context, _ database.Queryer, id uuid.UUID, f job.Fields) error {
	if _, ok := m.jobsByID[id]; !ok {
		return repository.ErrJobNotFound
	}
	m.updates = append(m.updates, fieldsUpdate{id: id, fields: f})
	return nil
}

type mockUserRepo struct {
	usersByID    map[uuid.UUID]user.User
	usersByEmail map[string]user.User

	created []user.User
	updated []user.User

	applied  int
	rejected int
	success  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[uuid.UUID]user.User),
		usersByEmail: make(map[string]user.User),
	}
}

func (m *mockUserRepo) add(u user.User) {
	m.usersByID[u.ID] = u
	m.usersByEmail[u.Email] = u
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	m.add(u)
	m.created = append(m.created, u)
	return u, nil
}

func (m *mockUserRepo) UpdateLogin(_ context.Context, u user.User) (user.User, error) {
	m.add(u)
	m.updated = append(m.updated, u)
	return u, nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]user.User, error) {
	out := make([]user.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) SetFlags(_ context.Context, id uuid.UUID, f repository.UserFlagsUpdate) (user.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	if f.IsAdmin != nil {
		u.IsAdmin = *f.IsAdmin
	}
	if f.IsActive != nil {
		u.IsActive = *f.IsActive
	}
	m.add(u)
	return u, nil
}

func (m *mockUserRepo) IncrementApplied(_ context.Context, _ database.Queryer, id uuid.UUID) error {
	m.applied++
	return nil
}

func (m *mockUserRepo) IncrementRejected(_ context.Context, _ database.Queryer, id uuid.UUID) error {
	m.rejected++
	return nil
}

func (m *mockUserRepo) IncrementSuccess(_ context.Context, _ database.Queryer, id uuid.UUID) error {
	m.success++
	return nil
}

type mockApplicationRepo struct {
	apps     map[uuid.UUID]application.Application
	sessions map[uuid.UUID]application.InterviewSession

	active    *application.Application
	insertErr error

	inserted         []application.Application
	updated          []application.Application
	insertedSessions []application.InterviewSession

	listRows   []repository.ApplicationListRow
	listFilter repository.ApplicationListFilter

	upcoming      []repository.UpcomingSessionRow
	upcomingLimit int
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{
		apps:     make(map[uuid.UUID]application.Application),
		sessions: make(map[uuid.UUID]application.InterviewSession),
	}
}

func (m *mockApplicationRepo) Insert(_ context.Context, _ database.Queryer, app application.Application) (application.Application, error) {
	if m.insertErr != nil {
		return application.Application{}, m.insertErr
	}
	app.ID = uuid.New()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	m.apps[app.ID] = app
	m.inserted = append(m.inserted, app)
	return app, nil
}

func (m *mockApplicationRepo) GetOwned(_ context.Context, _ database.Queryer, userID, id uuid.UUID) (application.Application, error) {
	app, ok := m.apps[id]
	if !ok || app.UserID != userID {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return app, nil
}

func (m *mockApplicationRepo) FindActive(_ context.Context, _ database.Queryer, _, _ uuid.UUID) (application.Application, bool, error) {
	if m.active == nil {
		return application.Application{}, false, nil
	}
	return *m.active, true, nil
}

func (m *mockApplicationRepo) Update(_ context.Context, _ database.Queryer, app application.Application) error {
	if _, ok := m.apps[app.ID]; !ok {
		return repository.ErrApplicationNotFound
	}
	m.apps[app.ID] = app
	m.updated = append(m.updated, app)
	return nil
}

func (m *mockApplicationRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	app, ok := m.apps[id]
	if !ok || app.UserID != userID {
		return repository.ErrApplicationNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *mockApplicationRepo) List(_ context.Context, _ uuid.UUID, f repository.ApplicationListFilter) ([]repository.ApplicationListRow, error) {
	m.listFilter = f
	return m.listRows, nil
}

func (m *mockApplicationRepo) InsertSession(_ context.Context, _ database.Queryer, s application.InterviewSession) (application.InterviewSession, error) {
	s.ID = uuid.New()
	m.sessions[s.ID] = s
	m.insertedSessions = append(m.insertedSessions, s)
	return s, nil
}

func (m *mockApplicationRepo) GetOwnedSession(_ context.Context, userID, appID, sessionID uuid.UUID) (application.InterviewSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.JobApplicationID != appID {
		return application.InterviewSession{}, repository.ErrSessionNotFound
	}
	if app, ok := m.apps[appID]; !ok || app.UserID != userID {
		return application.InterviewSession{}, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockApplicationRepo) UpdateSession(_ context.Context, s application.InterviewSession) error {
	if _, ok := m.sessions[s.ID]; !ok {
		return repository.ErrSessionNotFound
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *mockApplicationRepo) DeleteSession(_ context.Context, userID, appID, sessionID uuid.UUID) error {
	if _, err := m.GetOwnedSession(context.Background(), userID, appID, sessionID); err != nil {
		return err
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *mockApplicationRepo) ListSessions(_ context.Context, _ database.Queryer, appID uuid.UUID) ([]application.InterviewSession, error) {
	out := make([]application.InterviewSession, 0)
	for _, s := range m.sessions {
		if s.JobApplicationID == appID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) UpcomingSessions(_ context.Context, _ uuid.UUID, _ time.Time, limit int) ([]repository.UpcomingSessionRow, error) {
	m.upcomingLimit = limit
	return m.upcoming, nil
}

type mockCache struct {
	store   map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = b
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.store, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockResolver struct {
	j   job.Job
	err error
}

func (m mockResolver) Resolve(context.Context, database.Queryer, ResolveJobInput) (job.Job, error) {
	return m.j, m.err
}

type mockSettingsRepo struct {
	values map[string]string
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{values: make(map[string]string)}
}

func (m *mockSettingsRepo) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockSettingsRepo) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

var (
	_ repository.JobRepository         = (*mockJobRepo)(nil)
	_ repository.UserRepository        = (*mockUserRepo)(nil)
	_ repository.ApplicationRepository = (*mockApplicationRepo)(nil)
	_ repository.SettingsRepository    = (*mockSettingsRepo)(nil)
	_ Cache                            = (*mockCache)(nil)
	_ JobResolver                      = (mockResolver{})
)
