package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

// memStore is an in-memory stand-in for the Postgres schema. memTx snapshots
// it so a failed transaction leaves no trace.
type memStore struct {
	mu            sync.Mutex
	nextID        int64
	clock         time.Time
	users         map[int64]entity.User
	events        map[int64]entity.Event
	apps          map[int64]entity.Application
	donors        map[int64]entity.Donor
	notifications map[int64]entity.Notification

	failBatch      error
	failDeleteApps error
	failLedger     error

	ownerMu sync.Mutex
	owners  map[int64]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		nextID:        100,
		clock:         time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		users:         map[int64]entity.User{},
		events:        map[int64]entity.Event{},
		apps:          map[int64]entity.Application{},
		donors:        map[int64]entity.Donor{},
		notifications: map[int64]entity.Notification{},
		owners:        map[int64]*sync.Mutex{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	s.users[u.ID] = u
}

func (s *memStore) addEvent(e entity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
}

func (s *memStore) user(id int64) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) notificationsFor(userID int64) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *memStore) notificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

type memSnapshot struct {
	nextID        int64
	users         map[int64]entity.User
	apps          map[int64]entity.Application
	donors        map[int64]entity.Donor
	notifications map[int64]entity.Notification
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		nextID:        s.nextID,
		users:         copyMap(s.users),
		apps:          copyMap(s.apps),
		donors:        copyMap(s.donors),
		notifications: copyMap(s.notifications),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.users = snap.users
	s.apps = snap.apps
	s.donors = snap.donors
	s.notifications = snap.notifications
}

type memTx struct{ s *memStore }

type memTxKey struct{}

// memTxState is what a transaction holds: the rollback snapshot and the
// owner row locks taken with LockOwner, released once the tx ends.
type memTxState struct {
	snap memSnapshot
	held []*sync.Mutex
}

func (t memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	st := &memTxState{snap: t.s.snapshot()}
	defer func() {
		for _, m := range st.held {
			m.Unlock()
		}
	}()
	if err := fn(context.WithValue(ctx, memTxKey{}, st)); err != nil {
		t.s.restore(st.snap)
		return err
	}
	return nil
}

// lockOwner blocks until no other transaction holds the user's row. The
// snapshot is retaken afterwards so a rollback cannot undo rows committed by
// the transaction that held the lock before.
func (s *memStore) lockOwner(ctx context.Context, userID int64) error {
	st, ok := ctx.Value(memTxKey{}).(*memTxState)
	if !ok {
		return apperror.New(apperror.KindPersistence, "row lock outside transaction")
	}
	s.ownerMu.Lock()
	m, ok := s.owners[userID]
	if !ok {
		m = &sync.Mutex{}
		s.owners[userID] = m
	}
	s.ownerMu.Unlock()

	m.Lock()
	st.held = append(st.held, m)
	st.snap = s.snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return apperror.NotFound("user not found")
	}
	return nil
}

// users / ledger

type memUsers struct{ s *memStore }

func (r memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &u, nil
}

func (r memUsers) ListByBloodGroup(_ context.Context, bg entity.BloodGroup) ([]entity.Recipient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Recipient
	for _, u := range r.s.users {
		if u.BloodGroup == bg {
			out = append(out, entity.Recipient{UserID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperror.NotFound("user not found")
	}
	delete(r.s.users, id)
	return nil
}

type memLedger struct{ s *memStore }

func (r memLedger) RecordDonation(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLedger != nil {
		return r.s.failLedger
	}
	u, ok := r.s.users[userID]
	if !ok {
		return apperror.NotFound("user not found")
	}
	u.TotalDonations++
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	u.LastDonation = &today
	r.s.users[userID] = u
	return nil
}

func (r memLedger) Snapshot(_ context.Context, userID int64) (*entity.LedgerSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &entity.LedgerSnapshot{UserID: u.ID, TotalDonations: u.TotalDonations, LastDonation: u.LastDonation}, nil
}

// events / applications

type memEvents struct{ s *memStore }

func (r memEvents) GetByID(_ context.Context, id int64) (*entity.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, apperror.NotFound("event not found")
	}
	return &e, nil
}

type memApps struct{ s *memStore }

func (r memApps) Create(_ context.Context, a *entity.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.apps {
		if x.UserID == a.UserID && x.EventID == a.EventID {
			return apperror.Conflict("already exists")
		}
	}
	if _, ok := r.s.users[a.UserID]; !ok {
		return apperror.NotFound("user or event not found")
	}
	if _, ok := r.s.events[a.EventID]; !ok {
		return apperror.NotFound("user or event not found")
	}
	a.ID = r.s.id()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.apps[a.ID] = *a
	return nil
}

func (r memApps) GetByID(_ context.Context, id int64) (*entity.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return nil, apperror.NotFound("application not found")
	}
	return &a, nil
}

func (r memApps) TransitionStatus(_ context.Context, id int64, from, to entity.ApplicationStatus) (*entity.Application, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok || a.Status != from {
		return nil, false, nil
	}
	a.Status = to
	a.UpdatedAt = r.s.now()
	r.s.apps[id] = a
	return &a, true, nil
}

func newestFirst[T any](xs []T, at func(T) (time.Time, int64)) {
	sort.Slice(xs, func(i, j int) bool {
		ti, ii := at(xs[i])
		tj, ij := at(xs[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ii > ij
	})
}

func (r memApps) ListByUser(_ context.Context, userID int64) ([]entity.ApplicationHistoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ApplicationHistoryItem
	for _, a := range r.s.apps {
		if a.UserID != userID {
			continue
		}
		e := r.s.events[a.EventID]
		out = append(out, entity.ApplicationHistoryItem{Application: a, EventName: e.Name, EventDate: e.Date, EventLocation: e.Location})
	}
	newestFirst(out, func(x entity.ApplicationHistoryItem) (time.Time, int64) { return x.CreatedAt, x.ID })
	return out, nil
}

func (r memApps) ListAll(_ context.Context) ([]entity.ApplicationAdminView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ApplicationAdminView
	for _, a := range r.s.apps {
		u := r.s.users[a.UserID]
		out = append(out, entity.ApplicationAdminView{Application: a, UserName: u.Name, UserEmail: u.Email, EventName: r.s.events[a.EventID].Name})
	}
	newestFirst(out, func(x entity.ApplicationAdminView) (time.Time, int64) { return x.CreatedAt, x.ID })
	return out, nil
}

func (r memApps) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDeleteApps != nil {
		return 0, r.s.failDeleteApps
	}
	var n int64
	for id, a := range r.s.apps {
		if a.UserID == userID {
			delete(r.s.apps, id)
			n++
		}
	}
	return n, nil
}

// donors

type memDonors struct{ s *memStore }

func (r memDonors) view(d entity.Donor) *entity.DonorView {
	return &entity.DonorView{Donor: d, UserName: r.s.users[d.UserID].Name}
}

func (r memDonors) Create(_ context.Context, d *entity.Donor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[d.UserID]; !ok {
		return apperror.NotFound("user not found")
	}
	d.ID = r.s.id()
	d.CreatedAt = r.s.now()
	r.s.donors[d.ID] = *d
	return nil
}

func (r memDonors) GetByID(_ context.Context, id int64) (*entity.DonorView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[id]
	if !ok {
		return nil, apperror.NotFound("donor not found")
	}
	return r.view(d), nil
}

func (r memDonors) LockOwner(ctx context.Context, userID int64) error {
	return r.s.lockOwner(ctx, userID)
}

func (r memDonors) CountByUser(_ context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.donors {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memDonors) CountByUserAndHospital(_ context.Context, userID int64, hospital string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, d := range r.s.donors {
		if d.UserID == userID && strings.EqualFold(d.Hospital, hospital) {
			n++
		}
	}
	return n, nil
}

func (r memDonors) UpdateStatus(_ context.Context, id int64, status entity.DonorStatus) (*entity.DonorView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[id]
	if !ok {
		return nil, apperror.NotFound("donor not found")
	}
	d.Status = status
	r.s.donors[id] = d
	return r.view(d), nil
}

func (r memDonors) list(keep func(entity.Donor) bool) []entity.DonorView {
	var out []entity.DonorView
	for _, d := range r.s.donors {
		if keep(d) {
			out = append(out, *r.view(d))
		}
	}
	newestFirst(out, func(x entity.DonorView) (time.Time, int64) { return x.CreatedAt, x.ID })
	return out
}

func (r memDonors) ListByStatus(_ context.Context, status entity.DonorStatus) ([]entity.DonorView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(d entity.Donor) bool { return d.Status == status }), nil
}

func (r memDonors) ListAll(_ context.Context) ([]entity.DonorView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(entity.Donor) bool { return true }), nil
}

func (r memDonors) FindLatestByUser(_ context.Context, userID int64) (*entity.DonorView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vs := r.list(func(d entity.Donor) bool { return d.UserID == userID })
	if len(vs) == 0 {
		return nil, apperror.NotFound("donor registration not found")
	}
	return &vs[0], nil
}

func (r memDonors) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.donors[id]; !ok {
		return apperror.NotFound("donor not found")
	}
	delete(r.s.donors, id)
	return nil
}

func (r memDonors) DeleteByUser(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int64
	for id, d := range r.s.donors {
		if d.UserID == userID {
			ids = append(ids, id)
			delete(r.s.donors, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// notifications

type memNotifications struct{ s *memStore }

func (r memNotifications) insert(n *entity.Notification) error {
	if _, ok := r.s.users[n.UserID]; !ok {
		return apperror.NotFound("recipient not found")
	}
	n.ID = r.s.id()
	n.CreatedAt = r.s.now()
	n.IsRead = false
	r.s.notifications[n.ID] = *n
	return nil
}

func (r memNotifications) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(n)
}

func (r memNotifications) CreateBatch(_ context.Context, ns []*entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range ns {
		// fail half way so rollback has something to undo
		if r.s.failBatch != nil && i == len(ns)/2 {
			return apperror.Persistence(r.s.failBatch)
		}
		if err := r.insert(n); err != nil {
			return err
		}
	}
	return nil
}

func (r memNotifications) ListByUser(_ context.Context, userID int64, limit int) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	newestFirst(out, func(x entity.Notification) (time.Time, int64) { return x.CreatedAt, x.ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) MarkRead(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return apperror.NotFound("notification not found")
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

func (r memNotifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.notifications[id] = n
			c++
		}
	}
	return c, nil
}

func (r memNotifications) CountUnread(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r memNotifications) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c int64
	for id, n := range r.s.notifications {
		if n.UserID == userID {
			delete(r.s.notifications, id)
			c++
		}
	}
	return c, nil
}

// mocks

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) Index(ctx context.Context, d *entity.DonorView) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockIndex) Remove(ctx context.Context, donorID int64) error {
	return m.Called(ctx, donorID).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, q entity.DonorSearchQuery) ([]entity.DonorView, error) {
	args := m.Called(ctx, q)
	vs, _ := args.Get(0).([]entity.DonorView)
	return vs, args.Error(1)
}

var (
	_ repo.TxManager               = memTx{}
	_ repo.UserRepository          = memUsers{}
	_ repo.LedgerRepository        = memLedger{}
	_ repo.EventRepository         = memEvents{}
	_ repo.ApplicationRepository   = memApps{}
	_ repo.DonorRepository         = memDonors{}
	_ repo.NotificationRepository  = memNotifications{}
	_ repo.DonorIndex              = (*mockIndex)(nil)
	_ MailPublisher                = (*mockPublisher)(nil)
)
