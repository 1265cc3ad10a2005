// Package memory provides an in-memory Store implementation. It backs unit
// tests and DSN-less local runs with the same semantics as the postgres
// store: not-found errors, insertion-ordered listings and idempotent token
// revocation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/crm-access/internal/domain"
	"github.com/spec-kit/crm-access/internal/repository"
	"github.com/spec-kit/crm-access/pkg/util"
)

// Store keeps every table in maps guarded by one RWMutex.
type Store struct {
	mu sync.RWMutex

	staff     map[int]domain.StaffMember
	clients   map[int]domain.Client
	contracts map[int]domain.Contract
	events    map[int]domain.Event
	revoked   map[string]time.Time

	staffOrder    []int
	clientOrder   []int
	contractOrder []int
	eventOrder    []int

	nextID int
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		staff:     make(map[int]domain.StaffMember),
		clients:   make(map[int]domain.Client),
		contracts: make(map[int]domain.Contract),
		events:    make(map[int]domain.Event),
		revoked:   make(map[string]time.Time),
		nextID:    1,
	}
}

func (s *Store) Staff() repository.StaffRepository                { return &staffRepo{s} }
func (s *Store) Clients() repository.ClientRepository             { return &clientRepo{s} }
func (s *Store) Contracts() repository.ContractRepository         { return &contractRepo{s} }
func (s *Store) Events() repository.EventRepository               { return &eventRepo{s} }
func (s *Store) RevokedTokens() repository.RevokedTokenRepository { return &revokedRepo{s} }

// WithinTx runs fn against the store itself. A single operator and a single
// goroutine per command make transactional isolation unnecessary here.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func removeID(order []int, id int) []int {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

type staffRepo struct{ s *Store }

func (r *staffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	staff.ID = r.s.allocID()
	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	r.s.staff[staff.ID] = *staff
	r.s.staffOrder = append(r.s.staffOrder, staff.ID)
	return nil
}

func (r *staffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[staff.ID]; !ok {
		return util.NewNotFound("collaborator")
	}
	staff.UpdatedAt = time.Now()
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r *staffRepo) GetByID(_ context.Context, id int) (*domain.StaffMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	staff, ok := r.s.staff[id]
	if !ok {
		return nil, util.NewNotFound("collaborator")
	}
	return &staff, nil
}

func (r *staffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.staffOrder {
		if staff := r.s.staff[id]; staff.Email == email {
			return &staff, nil
		}
	}
	return nil, util.NewNotFound("collaborator")
}

func (r *staffRepo) List(_ context.Context) ([]domain.StaffMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.StaffMember, 0, len(r.s.staffOrder))
	for _, id := range r.s.staffOrder {
		out = append(out, r.s.staff[id])
	}
	return out, nil
}

func (r *staffRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.staff[id]; !ok {
		return util.NewNotFound("collaborator")
	}
	delete(r.s.staff, id)
	r.s.staffOrder = removeID(r.s.staffOrder, id)
	return nil
}

type clientRepo struct{ s *Store }

func (r *clientRepo) Create(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	client.ID = r.s.allocID()
	if client.FirstContactDate.IsZero() {
		client.FirstContactDate = time.Now()
	}
	r.s.clients[client.ID] = *client
	r.s.clientOrder = append(r.s.clientOrder, client.ID)
	return nil
}

func (r *clientRepo) Update(_ context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[client.ID]; !ok {
		return util.NewNotFound("client")
	}
	r.s.clients[client.ID] = *client
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id int) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	client, ok := r.s.clients[id]
	if !ok {
		return nil, util.NewNotFound("client")
	}
	return &client, nil
}

func (r *clientRepo) List(_ context.Context) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Client, 0, len(r.s.clientOrder))
	for _, id := range r.s.clientOrder {
		out = append(out, r.s.clients[id])
	}
	return out, nil
}

func (r *clientRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return util.NewNotFound("client")
	}
	delete(r.s.clients, id)
	r.s.clientOrder = removeID(r.s.clientOrder, id)
	return nil
}

type contractRepo struct{ s *Store }

func (r *contractRepo) Create(_ context.Context, contract *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	contract.ID = r.s.allocID()
	if contract.CreationDate.IsZero() {
		contract.CreationDate = time.Now()
	}
	r.s.contracts[contract.ID] = *contract
	r.s.contractOrder = append(r.s.contractOrder, contract.ID)
	return nil
}

func (r *contractRepo) Update(_ context.Context, contract *domain.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contracts[contract.ID]; !ok {
		return util.NewNotFound("contract")
	}
	r.s.contracts[contract.ID] = *contract
	return nil
}

func (r *contractRepo) GetByID(_ context.Context, id int) (*domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	contract, ok := r.s.contracts[id]
	if !ok {
		return nil, util.NewNotFound("contract")
	}
	return &contract, nil
}

func (r *contractRepo) List(_ context.Context) ([]domain.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Contract, 0, len(r.s.contractOrder))
	for _, id := range r.s.contractOrder {
		out = append(out, r.s.contracts[id])
	}
	return out, nil
}

func (r *contractRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contracts[id]; !ok {
		return util.NewNotFound("contract")
	}
	delete(r.s.contracts, id)
	r.s.contractOrder = removeID(r.s.contractOrder, id)
	return nil
}

type eventRepo struct{ s *Store }

func (r *eventRepo) Create(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.ID = r.s.allocID()
	r.s.events[event.ID] = *event
	r.s.eventOrder = append(r.s.eventOrder, event.ID)
	return nil
}

func (r *eventRepo) Update(_ context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; !ok {
		return util.NewNotFound("event")
	}
	r.s.events[event.ID] = *event
	return nil
}

func (r *eventRepo) GetByID(_ context.Context, id int) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	event, ok := r.s.events[id]
	if !ok {
		return nil, util.NewNotFound("event")
	}
	return &event, nil
}

func (r *eventRepo) List(_ context.Context) ([]domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Event, 0, len(r.s.eventOrder))
	for _, id := range r.s.eventOrder {
		out = append(out, r.s.events[id])
	}
	return out, nil
}

func (r *eventRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return util.NewNotFound("event")
	}
	delete(r.s.events, id)
	r.s.eventOrder = removeID(r.s.eventOrder, id)
	return nil
}

type revokedRepo struct{ s *Store }

func (r *revokedRepo) IsRevoked(_ context.Context, token string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[token]
	return ok, nil
}

func (r *revokedRepo) Revoke(_ context.Context, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.revoked[token]; ok {
		return true, nil
	}
	r.s.revoked[token] = time.Now()
	return false, nil
}
