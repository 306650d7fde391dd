package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- Transactor ---

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- Publisher ---

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

// --- Venues ---

type memVenues struct {
	venues map[int64]*entity.Venue
	nextID int64
}

func (m *memVenues) Create(ctx context.Context, venue *entity.Venue) error {
	m.nextID++
	venue.ID = m.nextID
	v := *venue
	m.venues[v.ID] = &v
	return nil
}

func (m *memVenues) FindByID(ctx context.Context, id int64) (*entity.Venue, error) {
	v, ok := m.venues[id]
	if !ok {
		return nil, nil
	}
	out := *v
	return &out, nil
}

func (m *memVenues) FindAll(ctx context.Context, filter entity.VenueFilter) ([]*entity.Venue, error) {
	var out []*entity.Venue
	for _, v := range m.venues {
		if filter.ActiveOnly && !v.IsActive {
			continue
		}
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memVenues) Update(ctx context.Context, venue *entity.Venue) error {
	if _, ok := m.venues[venue.ID]; !ok {
		return fmt.Errorf("venue %d: %w", venue.ID, entity.ErrNotFound)
	}
	v := *venue
	m.venues[v.ID] = &v
	return nil
}

func (m *memVenues) SetActive(ctx context.Context, id int64, active bool) error {
	v, ok := m.venues[id]
	if !ok {
		return fmt.Errorf("venue %d: %w", id, entity.ErrNotFound)
	}
	v.IsActive = active
	return nil
}

// --- Availability ---

type memAvailability struct {
	slots  map[int64]*entity.AvailabilitySlot
	nextID int64
	locks  int
}

func (m *memAvailability) seed(venueID int64, date time.Time, start, end entity.TimeOfDay, status entity.AvailabilityStatus) *entity.AvailabilitySlot {
	slot := &entity.AvailabilitySlot{VenueID: venueID, Date: date, StartTime: start, EndTime: end, Status: status}
	if err := m.Create(context.Background(), slot); err != nil {
		panic(err)
	}
	return slot
}

func (m *memAvailability) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	for _, s := range m.slots {
		if s.VenueID == slot.VenueID && s.Date.Equal(slot.Date) && s.StartTime == slot.StartTime && s.EndTime == slot.EndTime {
			return fmt.Errorf("slot already exists: %w", entity.ErrConflict)
		}
	}
	m.nextID++
	slot.ID = m.nextID
	s := *slot
	m.slots[s.ID] = &s
	return nil
}

func (m *memAvailability) FindByID(ctx context.Context, id int64) (*entity.AvailabilitySlot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *memAvailability) FindByVenueAndDate(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error) {
	return m.Search(ctx, entity.SlotFilter{VenueID: &venueID, From: date, To: date})
}

func (m *memAvailability) LockVenueDay(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error) {
	m.locks++
	return m.FindByVenueAndDate(ctx, venueID, date)
}

func (m *memAvailability) Search(ctx context.Context, filter entity.SlotFilter) ([]*entity.AvailabilitySlot, error) {
	var out []*entity.AvailabilitySlot
	for _, s := range m.slots {
		if filter.VenueID != nil && s.VenueID != *filter.VenueID {
			continue
		}
		if s.Date.Before(filter.From) || s.Date.After(filter.To) {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (m *memAvailability) Update(ctx context.Context, slot *entity.AvailabilitySlot) error {
	if _, ok := m.slots[slot.ID]; !ok {
		return fmt.Errorf("slot %d: %w", slot.ID, entity.ErrNotFound)
	}
	s := *slot
	m.slots[s.ID] = &s
	return nil
}

func (m *memAvailability) Delete(ctx context.Context, id int64) error {
	s, ok := m.slots[id]
	if !ok {
		return fmt.Errorf("slot %d: %w", id, entity.ErrNotFound)
	}
	if s.Status == entity.AvailabilityBooked {
		return fmt.Errorf("slot %d is booked and cannot be deleted: %w", id, entity.ErrInvalidState)
	}
	delete(m.slots, id)
	return nil
}

func (m *memAvailability) DeleteBookedByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	var n int64
	for id, s := range m.slots {
		if s.Status == entity.AvailabilityBooked && s.BookingID != nil && *s.BookingID == bookingID {
			delete(m.slots, id)
			n++
		}
	}
	return n, nil
}

func (m *memAvailability) withStatus(status entity.AvailabilityStatus) []*entity.AvailabilitySlot {
	var out []*entity.AvailabilitySlot
	for _, s := range m.slots {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// --- Bookings ---

type memBookings struct {
	bookings map[int64]*entity.Booking
	nextID   int64
	existsFn func(code string) bool
	locks    int
}

func (m *memBookings) Create(ctx context.Context, booking *entity.Booking) error {
	for _, b := range m.bookings {
		if b.ReferenceCode == booking.ReferenceCode {
			return fmt.Errorf("duplicate reference: %w", entity.ErrConflict)
		}
	}
	m.nextID++
	booking.ID = m.nextID
	b := *booking
	m.bookings[b.ID] = &b
	return nil
}

func (m *memBookings) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (m *memBookings) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	m.locks++
	return m.FindByID(ctx, id)
}

func (m *memBookings) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, id := range ids {
		if b, ok := m.bookings[id]; ok {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memBookings) FindByReferenceCode(ctx context.Context, code string) (*entity.Booking, error) {
	for _, b := range m.bookings {
		if b.ReferenceCode == code {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memBookings) ExistsByReferenceCode(ctx context.Context, code string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(code), nil
	}
	b, _ := m.FindByReferenceCode(ctx, code)
	return b != nil, nil
}

func (m *memBookings) FindByGuestID(ctx context.Context, guestID int64, limit, offset int) ([]*entity.Booking, error) {
	var all []*entity.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			c := *b
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memBookings) CountByGuestID(ctx context.Context, guestID int64) (int64, error) {
	var n int64
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			n++
		}
	}
	return n, nil
}

func (m *memBookings) FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range m.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.VenueID != nil && b.VenueID != *filter.VenueID {
			continue
		}
		if filter.From != nil && b.EventDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.EventDate.After(*filter.To) {
			continue
		}
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %d: %w", id, entity.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (m *memBookings) UpdateStaffFields(ctx context.Context, booking *entity.Booking) error {
	b, ok := m.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %d: %w", booking.ID, entity.ErrNotFound)
	}
	b.AssignedCoordinatorID = booking.AssignedCoordinatorID
	b.CoordinatorNotes = booking.CoordinatorNotes
	b.SetupStatus = booking.SetupStatus
	b.CateringNotes = booking.CateringNotes
	b.CateringStatus = booking.CateringStatus
	return nil
}

func (m *memBookings) UpdateDetails(ctx context.Context, booking *entity.Booking) error {
	b, ok := m.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %d: %w", booking.ID, entity.ErrNotFound)
	}
	b.VenueID = booking.VenueID
	b.EventType = booking.EventType
	b.EventDate = booking.EventDate
	b.StartTime = booking.StartTime
	b.EndTime = booking.EndTime
	b.GuestCount = booking.GuestCount
	b.TotalCost = booking.TotalCost
	b.SpecialRequests = booking.SpecialRequests
	return nil
}

// --- Preferences ---

type memPreferences struct {
	decor    map[int64]*entity.DecorPreferences
	catering map[int64]*entity.CateringPreferences
}

func (m *memPreferences) SaveDecor(ctx context.Context, prefs *entity.DecorPreferences) error {
	p := *prefs
	m.decor[p.BookingID] = &p
	return nil
}

func (m *memPreferences) FindDecorByBookingID(ctx context.Context, bookingID int64) (*entity.DecorPreferences, error) {
	return m.decor[bookingID], nil
}

func (m *memPreferences) SaveCatering(ctx context.Context, prefs *entity.CateringPreferences) error {
	p := *prefs
	m.catering[p.BookingID] = &p
	return nil
}

func (m *memPreferences) FindCateringByBookingID(ctx context.Context, bookingID int64) (*entity.CateringPreferences, error) {
	return m.catering[bookingID], nil
}

// --- Notifications ---

type memNotifications struct {
	items     map[int64]*entity.Notification
	nextID    int64
	createErr error
	cutoff    time.Time
}

func (m *memNotifications) Create(ctx context.Context, n *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	n.ID = m.nextID
	c := *n
	m.items[c.ID] = &c
	return nil
}

func (m *memNotifications) FindByID(ctx context.Context, id int64) (*entity.Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	out := *n
	return &out, nil
}

func (m *memNotifications) FindByRecipient(ctx context.Context, recipientID int64, read *bool) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range m.items {
		if n.RecipientID != recipientID {
			continue
		}
		if read != nil && n.IsRead != *read {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memNotifications) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	f := false
	items, _ := m.FindByRecipient(ctx, recipientID, &f)
	return int64(len(items)), nil
}

func (m *memNotifications) MarkAsRead(ctx context.Context, id, recipientID int64) error {
	n, ok := m.items[id]
	if !ok || n.RecipientID != recipientID {
		return fmt.Errorf("notification %d: %w", id, entity.ErrNotFound)
	}
	n.IsRead = true
	return nil
}

func (m *memNotifications) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	for _, item := range m.items {
		if item.RecipientID == recipientID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("notification %d: %w", id, entity.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *memNotifications) DeleteAllForRecipient(ctx context.Context, recipientID int64) (int64, error) {
	var n int64
	for id, item := range m.items {
		if item.RecipientID == recipientID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	var n int64
	for id, item := range m.items {
		if item.CreatedAt.Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) forRecipient(id int64) []*entity.Notification {
	items, _ := m.FindByRecipient(context.Background(), id, nil)
	return items
}

// --- Users ---

type memUsers struct {
	users  map[int64]*entity.User
	nextID int64
}

func (m *memUsers) add(username string, active bool, roles ...entity.RoleName) *entity.User {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		panic(err)
	}
	u := &entity.User{
		Username:     username,
		Email:        username + "@hotel.test",
		PasswordHash: hash,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Tester",
		IsActive:     active,
		Roles:        roles,
	}
	if err := m.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (m *memUsers) Create(ctx context.Context, user *entity.User) error {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("user exists: %w", entity.ErrConflict)
		}
	}
	m.nextID++
	user.ID = m.nextID
	u := *user
	u.Roles = append([]entity.RoleName(nil), user.Roles...)
	m.users[u.ID] = &u
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	out.Roles = append([]entity.RoleName(nil), u.Roles...)
	return &out, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return m.FindByID(ctx, u.ID)
		}
	}
	return nil, nil
}

func (m *memUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.FindByID(ctx, u.ID)
		}
	}
	return nil, nil
}

func (m *memUsers) FindByRole(ctx context.Context, role entity.RoleName) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		if u.HasRole(role) {
			c, _ := m.FindByID(ctx, u.ID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(ctx context.Context, user *entity.User) error {
	u, ok := m.users[user.ID]
	if !ok {
		return fmt.Errorf("user %d: %w", user.ID, entity.ErrNotFound)
	}
	u.Email = user.Email
	u.FirstName = user.FirstName
	u.LastName = user.LastName
	u.Phone = user.Phone
	u.IsActive = user.IsActive
	return nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, entity.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memUsers) AddRole(ctx context.Context, userID int64, role entity.RoleName) error {
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, entity.ErrNotFound)
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

func (m *memUsers) RemoveRole(ctx context.Context, userID int64, role entity.RoleName) error {
	u, ok := m.users[userID]
	if !ok || !u.HasRole(role) {
		return fmt.Errorf("user %d role %s: %w", userID, role, entity.ErrNotFound)
	}
	var kept []entity.RoleName
	for _, r := range u.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	return nil
}

// --- Sessions ---

type mockSessionRepo struct {
	created      []*entity.Session
	revoked      []string
	revokedUsers []int64
	revokeErr    error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	session.ID = int64(len(m.created) + 1)
	m.created = append(m.created, session)
	return nil
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	for _, s := range m.created {
		if s.Token.String() == token {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.revoked = append(m.revoked, token)
	return nil
}

func (m *mockSessionRepo) RevokeAllUserSessions(ctx context.Context, userID int64) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// --- Fixture ---

type fixture struct {
	venues        *memVenues
	slots         *memAvailability
	bookings      *memBookings
	prefs         *memPreferences
	notifications *memNotifications
	users         *memUsers
	sessions      *mockSessionRepo
	tx            *fakeTransactor
	repo          *repository.Repository
	log           *zap.Logger
}

func newFixture() *fixture {
	f := &fixture{
		venues:        &memVenues{venues: map[int64]*entity.Venue{}},
		slots:         &memAvailability{slots: map[int64]*entity.AvailabilitySlot{}},
		bookings:      &memBookings{bookings: map[int64]*entity.Booking{}},
		prefs:         &memPreferences{decor: map[int64]*entity.DecorPreferences{}, catering: map[int64]*entity.CateringPreferences{}},
		notifications: &memNotifications{items: map[int64]*entity.Notification{}},
		users:         &memUsers{users: map[int64]*entity.User{}},
		sessions:      &mockSessionRepo{},
		tx:            &fakeTransactor{},
		log:           zap.NewNop(),
	}
	f.repo = &repository.Repository{
		User:         f.users,
		Session:      f.sessions,
		Venue:        f.venues,
		Availability: f.slots,
		Booking:      f.bookings,
		Preference:   f.prefs,
		Notification: f.notifications,
	}
	return f
}

func (f *fixture) addVenue(name string, rate string, active bool) *entity.Venue {
	v := &entity.Venue{
		Name:       name,
		Type:       entity.VenueTypeHall,
		Capacity:   200,
		HourlyRate: decimal.RequireFromString(rate),
		IsActive:   active,
	}
	if err := f.venues.Create(context.Background(), v); err != nil {
		panic(err)
	}
	return v
}

func testConfig(enforce bool) *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{BaseURL: "https://hotel.test"},
		Session: utils.SessionConfig{ExpiryHours: 24},
		Booking: utils.BookingConfig{EnforceTransitions: enforce, ReferenceAttempts: 5},
	}
}

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

func (f *fixture) bookingService(enforce bool, publisher EventPublisher) *bookingService {
	notifications := NewNotificationService(f.repo, f.log)
	dispatcher := NewStatusDispatcher(f.repo, notifications, publisher, f.log)
	svc := NewBookingService(f.repo, f.tx, dispatcher, notifications, testConfig(enforce), f.log).(*bookingService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func (f *fixture) availabilityService() *availabilityService {
	svc := NewAvailabilityService(f.repo, f.tx, f.log).(*availabilityService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func day(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tod(s string) entity.TimeOfDay {
	t, err := entity.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}
