package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/salon-crm/internal/domain"
	"github.com/spec-kit/salon-crm/internal/repository"
	apperrors "github.com/spec-kit/salon-crm/pkg/util"
)

func newTestLedger(t *testing.T) (*AppointmentService, *ClientService) {
	t.Helper()
	clientRepo := newFakeClientRepo()
	appointmentRepo := newFakeAppointmentRepo(clientRepo)

	clientService := NewClientService(ClientDependencies{
		ClientRepo:      clientRepo,
		AppointmentRepo: appointmentRepo,
	})
	appointmentService := NewAppointmentService(AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		ClientRepo:      clientRepo,
	})
	return appointmentService, clientService
}

func createTestClient(t *testing.T, clients *ClientService, name, email string) *domain.Client {
	t.Helper()
	client, err := clients.CreateClient(context.Background(), ClientCreateInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code)
	}
}

func TestCreateAppointmentDefaultsPending(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	date := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     date,
		Service:  "Corte",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if appointment.Status != domain.AppointmentStatusPending {
		t.Fatalf("expected status pending, got %s", appointment.Status)
	}
	if !appointment.Date.Equal(date) {
		t.Fatalf("expected date %v, got %v", date, appointment.Date)
	}
}

func TestCreateAppointmentExplicitStatus(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     time.Now().UTC(),
		Service:  "Corte",
		Status:   domain.AppointmentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if appointment.Status != domain.AppointmentStatusCompleted {
		t.Fatalf("expected status completed, got %s", appointment.Status)
	}
}

func TestCreateAppointmentUnknownClient(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: 42,
		Date:     time.Now().UTC(),
		Service:  "Corte",
	})
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestCreateAppointmentInvalidStatus(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	_, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     time.Now().UTC(),
		Service:  "Corte",
		Status:   "done",
	})
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestUpdateAppointmentPartial(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	price := 80.0
	notes := "first visit"
	date := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     date,
		Service:  "Corte",
		Price:    &price,
		Notes:    &notes,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	completed := domain.AppointmentStatusCompleted
	updated, err := ledger.UpdateAppointment(context.Background(), appointment.ID, AppointmentUpdateInput{
		Status: &completed,
	})
	if err != nil {
		t.Fatalf("update appointment: %v", err)
	}

	if updated.Status != domain.AppointmentStatusCompleted {
		t.Fatalf("expected status completed, got %s", updated.Status)
	}
	if updated.Service != "Corte" {
		t.Fatalf("service changed on partial update: %s", updated.Service)
	}
	if !updated.Date.Equal(date) {
		t.Fatalf("date changed on partial update: %v", updated.Date)
	}
	if updated.Price == nil || *updated.Price != price {
		t.Fatalf("price changed on partial update: %v", updated.Price)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Fatalf("notes changed on partial update: %v", updated.Notes)
	}
}

func TestUpdateAppointmentEmptyInputIsNoOp(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC),
		Service:  "Corte",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	updated, err := ledger.UpdateAppointment(context.Background(), appointment.ID, AppointmentUpdateInput{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if *updated != *appointment {
		t.Fatalf("empty update changed the record: %+v vs %+v", updated, appointment)
	}
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	ledger, _ := newTestLedger(t)

	service := "Corte"
	_, err := ledger.UpdateAppointment(context.Background(), 999, AppointmentUpdateInput{Service: &service})
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestStatusLifecycleScenario(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC),
		Service:  "Corte",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if appointment.Status != domain.AppointmentStatusPending {
		t.Fatalf("expected pending, got %s", appointment.Status)
	}

	completed := domain.AppointmentStatusCompleted
	if _, err := ledger.UpdateAppointment(context.Background(), appointment.ID, AppointmentUpdateInput{Status: &completed}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := ledger.GetAppointment(context.Background(), appointment.ID)
	if err != nil {
		t.Fatalf("get appointment: %v", err)
	}
	if got.Status != domain.AppointmentStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.Service != "Corte" {
		t.Fatalf("service changed: %s", got.Service)
	}

	// no transition graph: cancelled after completed is legal
	cancelled := domain.AppointmentStatusCancelled
	if _, err := ledger.UpdateAppointment(context.Background(), appointment.ID, AppointmentUpdateInput{Status: &cancelled}); err != nil {
		t.Fatalf("completed to cancelled: %v", err)
	}
}

func TestCheckConflict(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")
	other := createTestClient(t, clients, "Bia", "bia@x.com")

	at := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     at,
		Service:  "Corte",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	tests := []struct {
		name      string
		clientID  int64
		at        time.Time
		excludeID int64
		want      bool
	}{
		{"same client same instant", client.ID, at, 0, true},
		{"same client different instant", client.ID, at.Add(time.Hour), 0, false},
		{"different client same instant", other.ID, at, 0, false},
		{"excluding the only match", client.ID, at, appointment.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ledger.CheckConflict(context.Background(), tt.clientID, tt.at, tt.excludeID)
			if err != nil {
				t.Fatalf("check conflict: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDoubleBookingPersists(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	at := time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if _, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
			ClientID: client.ID,
			Date:     at,
			Service:  "Corte",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	// the conflict check is advisory only; nothing prevented the duplicate
	list, err := ledger.ListAppointments(context.Background(), repository.AppointmentFilter{ClientID: &client.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected both duplicate bookings to persist, got %d", len(list))
	}
}

func TestListFilterByClientJoinsSummary(t *testing.T) {
	ledger, clients := newTestLedger(t)
	ana := createTestClient(t, clients, "Ana", "ana@x.com")
	bia := createTestClient(t, clients, "Bia", "bia@x.com")

	base := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	for i, owner := range []*domain.Client{ana, ana, bia} {
		if _, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
			ClientID: owner.ID,
			Date:     base.Add(time.Duration(i) * time.Hour),
			Service:  "Corte",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	list, err := ledger.ListAppointments(context.Background(), repository.AppointmentFilter{ClientID: &ana.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 appointments for ana, got %d", len(list))
	}
	for _, item := range list {
		if item.ClientID != ana.ID {
			t.Fatalf("filter leaked foreign appointment: client %d", item.ClientID)
		}
		if item.Client.ID != ana.ID || item.Client.Name != "Ana" || item.Client.Email != "ana@x.com" {
			t.Fatalf("joined client summary mismatch: %+v", item.Client)
		}
	}
}

func TestListFilterByDayAndTime(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	dates := []time.Time{
		time.Date(2025, 6, 20, 15, 30, 0, 0, time.UTC),
		time.Date(2025, 6, 20, 16, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 15, 30, 0, 0, time.UTC),
	}
	for i, d := range dates {
		if _, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
			ClientID: client.ID,
			Date:     d,
			Service:  "Corte",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	day := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	list, err := ledger.ListAppointments(context.Background(), repository.AppointmentFilter{Day: &day})
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 appointments on 2025-06-20, got %d", len(list))
	}
	if !list[0].Date.Before(list[1].Date) {
		t.Fatalf("expected date ascending order")
	}

	timeOfDay := "15:30"
	list, err = ledger.ListAppointments(context.Background(), repository.AppointmentFilter{Day: &day, TimeOfDay: &timeOfDay})
	if err != nil {
		t.Fatalf("list by day and time: %v", err)
	}
	if len(list) != 1 || !list[0].Date.Equal(dates[0]) {
		t.Fatalf("conjunctive filter mismatch: %+v", list)
	}
}

func TestDeleteAppointment(t *testing.T) {
	ledger, clients := newTestLedger(t)
	client := createTestClient(t, clients, "Ana", "ana@x.com")

	appointment, err := ledger.CreateAppointment(context.Background(), AppointmentCreateInput{
		ClientID: client.ID,
		Date:     time.Now().UTC(),
		Service:  "Corte",
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	if err := ledger.DeleteAppointment(context.Background(), appointment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = ledger.GetAppointment(context.Background(), appointment.ID)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestDeleteAppointmentNotFound(t *testing.T) {
	ledger, _ := newTestLedger(t)
	err := ledger.DeleteAppointment(context.Background(), 999)
	assertDomainCode(t, err, "NOT_FOUND")
}
