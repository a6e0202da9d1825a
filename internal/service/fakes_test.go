package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/salon-crm/internal/domain"
	"github.com/spec-kit/salon-crm/internal/repository"
)

type fakeClientRepo struct {
	mu      sync.Mutex
	nextID  int64
	clients map[int64]domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[int64]domain.Client)}
}

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	client.ID = r.nextID
	client.CreatedAt = time.Now().UTC()
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &client, nil
}

func (r *fakeClientRepo) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		if strings.EqualFold(client.Email, email) {
			c := client
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClientRepo) List(_ context.Context) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		result = append(result, client)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.clients, id)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	nextID       int64
	appointments map[int64]domain.Appointment
	clients      *fakeClientRepo
}

func newFakeAppointmentRepo(clients *fakeClientRepo) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[int64]domain.Appointment),
		clients:      clients,
	}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	appointment.ID = r.nextID
	appointment.CreatedAt = time.Now().UTC()
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appointment *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[appointment.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.AppointmentWithClient, error) {
	r.mu.Lock()
	appointment, ok := r.appointments[id]
	r.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.join(ctx, appointment)
}

func (r *fakeAppointmentRepo) ListWithFilter(ctx context.Context, filter repository.AppointmentFilter) ([]domain.AppointmentWithClient, error) {
	r.mu.Lock()
	matched := make([]domain.Appointment, 0, len(r.appointments))
	for _, appointment := range r.appointments {
		if filter.ClientID != nil && appointment.ClientID != *filter.ClientID {
			continue
		}
		if filter.Day != nil {
			dayStart := filter.Day.UTC().Truncate(24 * time.Hour)
			if appointment.Date.Before(dayStart) || !appointment.Date.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}
		if filter.TimeOfDay != nil && appointment.Date.UTC().Format("15:04") != *filter.TimeOfDay {
			continue
		}
		matched = append(matched, appointment)
	}
	r.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })

	result := make([]domain.AppointmentWithClient, 0, len(matched))
	for _, appointment := range matched {
		joined, err := r.join(ctx, appointment)
		if err != nil {
			return nil, err
		}
		result = append(result, *joined)
	}
	return result, nil
}

func (r *fakeAppointmentRepo) CountAtInstant(_ context.Context, clientID int64, at time.Time, excludeID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, appointment := range r.appointments {
		if appointment.ClientID == clientID && appointment.Date.Equal(at) && appointment.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) CountByClient(_ context.Context, clientID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, appointment := range r.appointments {
		if appointment.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) join(ctx context.Context, appointment domain.Appointment) (*domain.AppointmentWithClient, error) {
	client, err := r.clients.GetByID(ctx, appointment.ClientID)
	if err != nil {
		return nil, err
	}
	return &domain.AppointmentWithClient{Appointment: appointment, Client: *client}, nil
}
