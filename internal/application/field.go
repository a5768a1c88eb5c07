package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"county-revenue/internal/domain"
	"county-revenue/internal/filter"
	"county-revenue/internal/ports"
)

// GISService serves business markers for the map view.
type GISService struct {
	registry   *Registry
	businesses ports.BusinessStore
}

func NewGISService(registry *Registry, businesses ports.BusinessStore) *GISService {
	return &GISService{registry: registry, businesses: businesses}
}

type BusinessMap struct {
	filter.Result[domain.Business]
	Counts map[domain.ComplianceStatus]int `json:"counts"`
}

// Markers returns businesses matching q; counts cover every business.
func (s *GISService) Markers(ctx context.Context, user domain.User, q filter.Query) (BusinessMap, error) {
	if err := s.registry.Require(user, domain.ViewGIS, ""); err != nil {
		return BusinessMap{}, err
	}
	if err := filter.Businesses.Validate(q); err != nil {
		return BusinessMap{}, err
	}
	all, err := s.businesses.List(ctx)
	if err != nil {
		return BusinessMap{}, err
	}
	counts := map[domain.ComplianceStatus]int{domain.Compliant: 0, domain.Pending: 0, domain.Defaulter: 0}
	for _, b := range all {
		counts[b.Status]++
	}
	return BusinessMap{Result: filter.Summarize(all, filter.Businesses, filter.Unscoped(), q), Counts: counts}, nil
}

var paymentChannels = []domain.PaymentChannel{
	{ID: "ussd", Name: "USSD Gateway", Description: "Shortcode *123# for basic phones", Status: "Active", Uptime: "99.9%", DailyVolume: 12450},
	{ID: "web", Name: "Web Portal", Description: "Online citizen self-service portal", Status: "Active", Uptime: "100%", DailyVolume: 5230},
	{ID: "bank", Name: "Bank Integration", Description: "Direct bank transfers & cards", Status: "Active", Uptime: "99.5%", DailyVolume: 1890},
	{ID: "whatsapp", Name: "WhatsApp Bot", Description: "Conversational payment flow", Status: "Beta"},
}

type ChannelService struct {
	registry *Registry
}

func NewChannelService(registry *Registry) *ChannelService {
	return &ChannelService{registry: registry}
}

func (s *ChannelService) List(user domain.User) ([]domain.PaymentChannel, error) {
	if err := s.registry.Require(user, domain.ViewChannels, ""); err != nil {
		return nil, err
	}
	return append([]domain.PaymentChannel(nil), paymentChannels...), nil
}

// FeeCategory is a quick-collect fee and the department it accrues to.
type FeeCategory struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

var feeCategories = []FeeCategory{
	{Name: "Parking Fee", Department: "Transport"},
	{Name: "Market Fee", Department: "Markets"},
	{Name: "Cess / Barrier", Department: "Trade"},
}

// CollectionService backs the field collection view.
type CollectionService struct {
	registry *Registry
	payments *PaymentService
	store    ports.PaymentStore
}

func NewCollectionService(registry *Registry, payments *PaymentService, store ports.PaymentStore) *CollectionService {
	return &CollectionService{registry: registry, payments: payments, store: store}
}

type FieldCollection struct {
	Categories []FeeCategory `json:"categories"`
}

func (s *CollectionService) Overview(user domain.User) (FieldCollection, error) {
	if err := s.registry.Require(user, domain.ViewCollection, ""); err != nil {
		return FieldCollection{}, err
	}
	return FieldCollection{Categories: append([]FeeCategory(nil), feeCategories...)}, nil
}

// Lookup finds payments for a vehicle plate, business name or reference.
func (s *CollectionService) Lookup(ctx context.Context, user domain.User, reference string) (filter.Result[domain.Payment], error) {
	if err := s.registry.Require(user, domain.ViewCollection, ""); err != nil {
		return filter.Result[domain.Payment]{}, err
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return filter.Result[domain.Payment]{}, fmt.Errorf("%w: reference is required", domain.ErrInvalidInput)
	}
	all, err := s.store.List(ctx)
	if err != nil {
		return filter.Result[domain.Payment]{}, err
	}
	byReference := filter.Payments
	byReference.SearchFields = append(slices.Clip(byReference.SearchFields), func(p domain.Payment) string { return p.Reference })
	return filter.Summarize(all, byReference, filter.Unscoped(), filter.Query{Search: reference}), nil
}

type CollectInput struct {
	Category string  `json:"category" validate:"required"`
	Payer    string  `json:"payer" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

// Collect records a quick-collect fee taken in the field.
func (s *CollectionService) Collect(ctx context.Context, user domain.User, in CollectInput) (domain.Payment, error) {
	if err := s.registry.Require(user, domain.ViewCollection, domain.ActionCollect); err != nil {
		return domain.Payment{}, err
	}
	var category *FeeCategory
	for i := range feeCategories {
		if feeCategories[i].Name == in.Category {
			category = &feeCategories[i]
		}
	}
	if category == nil {
		return domain.Payment{}, fmt.Errorf("%w: unknown fee category %q", domain.ErrInvalidInput, in.Category)
	}
	payer := strings.TrimSpace(in.Payer)
	if payer == "" || in.Amount <= 0 {
		return domain.Payment{}, fmt.Errorf("%w: payer and a positive amount are required", domain.ErrInvalidInput)
	}
	return s.payments.record(ctx, ports.PaymentRequest{Payer: payer, Amount: in.Amount, Department: category.Department, Type: category.Name})
}

type Preferences struct {
	EmailAlerts     bool `json:"email_alerts"`
	PaymentFailures bool `json:"payment_failures"`
}

type Profile struct {
	domain.User
	Preferences Preferences `json:"preferences"`
}

// ProfileService backs the settings view. Preferences live for the
// lifetime of the process.
type ProfileService struct {
	registry *Registry

	mu    sync.RWMutex
	prefs map[string]Preferences
}

func NewProfileService(registry *Registry) *ProfileService {
	return &ProfileService{registry: registry, prefs: make(map[string]Preferences)}
}

func (s *ProfileService) Get(user domain.User) (Profile, error) {
	if err := s.registry.Require(user, domain.ViewSettings, ""); err != nil {
		return Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.prefs[user.Username]
	if !ok {
		prefs = Preferences{EmailAlerts: true, PaymentFailures: true}
	}
	return Profile{User: user, Preferences: prefs}, nil
}

func (s *ProfileService) UpdatePreferences(user domain.User, prefs Preferences) (Profile, error) {
	if err := s.registry.Require(user, domain.ViewSettings, domain.ActionUpdateProfile); err != nil {
		return Profile{}, err
	}
	s.mu.Lock()
	s.prefs[user.Username] = prefs
	s.mu.Unlock()
	return Profile{User: user, Preferences: prefs}, nil
}
