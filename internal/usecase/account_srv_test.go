package usecase

import (
	"context"
	"errors"
	"testing"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/dto/request"
	"event-reservation/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== AUTH ====================

func TestRegister_CreatesGuestWithSession(t *testing.T) {
	f := newFixture()
	svc := NewAuthService(f.repo, f.tx, testConfig(false), f.log)

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username:  "jane",
		Email:     "Jane@Example.com",
		Password:  "supersecret",
		FirstName: "Jane",
		LastName:  "Doe",
	}, ClientInfo{UserAgent: "curl/8.0", IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", resp.Email)
	assert.Equal(t, []entity.RoleName{entity.RoleGuest}, resp.Roles)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, f.sessions.created, 1)
	assert.Equal(t, "curl/8.0", *f.sessions.created[0].UserAgent)

	stored := f.users.users[resp.UserID]
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("supersecret", stored.PasswordHash))
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture()
	f.users.add("jane", true, entity.RoleGuest)
	svc := NewAuthService(f.repo, f.tx, testConfig(false), f.log)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "other", Email: "jane@hotel.test", Password: "supersecret", FirstName: "J", LastName: "D",
	}, ClientInfo{})
	assert.ErrorIs(t, err, entity.ErrConflict)

	_, err = svc.Register(context.Background(), &request.RegisterRequest{
		Username: "jane", Email: "new@hotel.test", Password: "supersecret", FirstName: "J", LastName: "D",
	}, ClientInfo{})
	assert.ErrorIs(t, err, entity.ErrConflict)

	_, err = svc.Register(context.Background(), &request.RegisterRequest{
		Username: "x", Email: "not-an-email", Password: "short",
	}, ClientInfo{})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	f.users.add("jane", true, entity.RoleGuest)
	f.users.add("gone", false, entity.RoleGuest)
	svc := NewAuthService(f.repo, f.tx, testConfig(false), f.log)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"by username", "jane", "password123", nil},
		{"by email", "jane@hotel.test", "password123", nil},
		{"wrong password", "jane", "password124", entity.ErrUnauthorized},
		{"unknown user", "nobody", "password123", entity.ErrUnauthorized},
		{"inactive user", "gone", "password123", entity.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &request.LoginRequest{Username: tt.username, Password: tt.password}, ClientInfo{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jane", resp.Username)
			assert.NotNil(t, resp.ExpiresAt)
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture()
	svc := NewAuthService(f.repo, f.tx, testConfig(false), f.log)
	token := utils.GenerateSessionToken().String()

	require.NoError(t, svc.Logout(context.Background(), token))
	assert.Equal(t, []string{token}, f.sessions.revoked)

	assert.ErrorIs(t, svc.Logout(context.Background(), "garbage"), entity.ErrUnauthorized)

	f.sessions.revokeErr = errors.New("db gone")
	assert.Error(t, svc.Logout(context.Background(), token))
}

// ==================== USER ====================

func TestUpdateProfile_EmailTaken(t *testing.T) {
	f := newFixture()
	jane := f.users.add("jane", true, entity.RoleGuest)
	f.users.add("john", true, entity.RoleGuest)
	svc := NewUserService(f.repo, f.log)

	_, err := svc.UpdateProfile(context.Background(), jane.ID, &request.UpdateProfileRequest{
		Email: "john@hotel.test", FirstName: "Jane", LastName: "Doe",
	})
	assert.ErrorIs(t, err, entity.ErrConflict)

	resp, err := svc.UpdateProfile(context.Background(), jane.ID, &request.UpdateProfileRequest{
		Email: "JANE.DOE@hotel.test", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@hotel.test", resp.Email)
	assert.Equal(t, "Doe", f.users.users[jane.ID].LastName)
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	f := newFixture()
	jane := f.users.add("jane", true, entity.RoleGuest)
	svc := NewUserService(f.repo, f.log)

	err := svc.ChangePassword(context.Background(), jane.ID, &request.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	err = svc.ChangePassword(context.Background(), jane.ID, &request.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("newpassword", f.users.users[jane.ID].PasswordHash))
	assert.Equal(t, []int64{jane.ID}, f.sessions.revokedUsers)
}

func TestRoles(t *testing.T) {
	f := newFixture()
	jane := f.users.add("jane", true, entity.RoleGuest)
	svc := NewUserService(f.repo, f.log)
	ctx := context.Background()

	_, err := svc.RemoveRole(ctx, jane.ID, &request.RoleRequest{Role: "GUEST"})
	assert.ErrorIs(t, err, entity.ErrInvalidState, "last role stays")

	resp, err := svc.AssignRole(ctx, jane.ID, &request.RoleRequest{Role: "RECEPTIONIST"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.RoleName{entity.RoleGuest, entity.RoleReceptionist}, resp.Roles)

	// assigning twice is a no-op
	resp, err = svc.AssignRole(ctx, jane.ID, &request.RoleRequest{Role: "RECEPTIONIST"})
	require.NoError(t, err)
	assert.Len(t, resp.Roles, 2)

	resp, err = svc.RemoveRole(ctx, jane.ID, &request.RoleRequest{Role: "GUEST"})
	require.NoError(t, err)
	assert.Equal(t, []entity.RoleName{entity.RoleReceptionist}, resp.Roles)

	_, err = svc.RemoveRole(ctx, jane.ID, &request.RoleRequest{Role: "GENERAL_MANAGER"})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	staff, err := svc.ListByRole(ctx, "receptionist")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, jane.ID, staff[0].ID)

	_, err = svc.ListByRole(ctx, "janitor")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestSetActive_DeactivationRevokesSessions(t *testing.T) {
	f := newFixture()
	jane := f.users.add("jane", true, entity.RoleGuest)
	svc := NewUserService(f.repo, f.log)

	require.NoError(t, svc.SetActive(context.Background(), jane.ID, false))
	assert.False(t, f.users.users[jane.ID].IsActive)
	assert.Equal(t, []int64{jane.ID}, f.sessions.revokedUsers)

	require.NoError(t, svc.SetActive(context.Background(), jane.ID, true))
	assert.Len(t, f.sessions.revokedUsers, 1)

	assert.ErrorIs(t, svc.SetActive(context.Background(), 404, true), entity.ErrNotFound)
}

// ==================== VENUE ====================

func TestVenue_CreateAndUpdate(t *testing.T) {
	f := newFixture()
	svc := NewVenueService(f.repo, f.log)
	ctx := context.Background()

	created, err := svc.Create(ctx, &request.VenueRequest{
		Name: " Rose Ballroom ", Type: "HALL", Capacity: 300, HourlyRate: decimal.RequireFromString("250.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rose Ballroom", created.Name)
	assert.True(t, created.IsActive)

	updated, err := svc.Update(ctx, created.ID, &request.VenueRequest{
		Name: "Rose Ballroom", Type: "HALL", Capacity: 320, HourlyRate: decimal.RequireFromString("275"),
	})
	require.NoError(t, err)
	assert.Equal(t, 320, updated.Capacity)

	_, err = svc.Update(ctx, 404, &request.VenueRequest{
		Name: "Nope", Type: "ROOM", Capacity: 1, HourlyRate: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestVenue_Validation(t *testing.T) {
	f := newFixture()
	svc := NewVenueService(f.repo, f.log)

	tests := []struct {
		name string
		req  *request.VenueRequest
	}{
		{"zero rate", &request.VenueRequest{Name: "A", Type: "ROOM", Capacity: 10}},
		{"negative rate", &request.VenueRequest{Name: "A", Type: "ROOM", Capacity: 10, HourlyRate: decimal.NewFromInt(-5)}},
		{"bad type", &request.VenueRequest{Name: "A", Type: "TENT", Capacity: 10, HourlyRate: decimal.NewFromInt(5)}},
		{"no capacity", &request.VenueRequest{Name: "A", Type: "ROOM", HourlyRate: decimal.NewFromInt(5)}},
		{"blank name", &request.VenueRequest{Name: "  ", Type: "ROOM", Capacity: 10, HourlyRate: decimal.NewFromInt(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestVenue_ActivationAndList(t *testing.T) {
	f := newFixture()
	hall := f.addVenue("Grand Hall", "100.00", true)
	room := f.addVenue("Board Room", "40.00", true)
	svc := NewVenueService(f.repo, f.log)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, room.ID))
	assert.ErrorIs(t, svc.Activate(ctx, 404), entity.ErrNotFound)

	active, err := svc.List(ctx, request.VenueQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, hall.ID, active[0].ID)

	all, err := svc.List(ctx, request.VenueQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	halls, err := svc.List(ctx, request.VenueQuery{Type: "hall"})
	require.NoError(t, err)
	assert.Len(t, halls, 2)

	_, err = svc.List(ctx, request.VenueQuery{Type: "tent"})
	assert.ErrorIs(t, err, entity.ErrValidation)

	got, err := svc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
