package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/models"
)

// memStore is an in-memory stand-in for *repository.Repository. It honours
// the same contracts, notably the newest-first ordering of
// FindOperationsByCard.
type memStore struct {
	clients    map[int64]*models.Client
	cards      map[int64]*models.Card
	operations []models.Operation
	alerts     []models.Alert
	users      map[string]*models.User
	nextID     int64

	createAlertErr error
	updateCardErr  error
}

func newMemStore() *memStore {
	return &memStore{
		clients: make(map[int64]*models.Client),
		cards:   make(map[int64]*models.Card),
		users:   make(map[string]*models.User),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateClient(_ context.Context, client *models.Client) error {
	client.ID = m.id()
	clone := *client
	m.clients[client.ID] = &clone
	return nil
}

func (m *memStore) FindClientByID(_ context.Context, id int64) (*models.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, models.ErrClientNotFound
	}
	clone := *client
	return &clone, nil
}

func (m *memStore) FindClientByEmail(_ context.Context, email string) (*models.Client, error) {
	for _, client := range m.clients {
		if client.Email == email {
			clone := *client
			return &clone, nil
		}
	}
	return nil, models.ErrClientNotFound
}

func (m *memStore) FindClientByPhone(_ context.Context, phone string) (*models.Client, error) {
	for _, client := range m.clients {
		if client.Phone == phone {
			clone := *client
			return &clone, nil
		}
	}
	return nil, models.ErrClientNotFound
}

func (m *memStore) FindAllClients(_ context.Context) ([]models.Client, error) {
	var clients []models.Client
	for _, client := range m.clients {
		clients = append(clients, *client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (m *memStore) UpdateClient(_ context.Context, client *models.Client) (bool, error) {
	if _, ok := m.clients[client.ID]; !ok {
		return false, nil
	}
	clone := *client
	m.clients[client.ID] = &clone
	return true, nil
}

func (m *memStore) DeleteClient(_ context.Context, id int64) (bool, error) {
	if _, ok := m.clients[id]; !ok {
		return false, nil
	}
	delete(m.clients, id)
	return true, nil
}

func (m *memStore) CreateCard(_ context.Context, card *models.Card) error {
	card.ID = m.id()
	clone := *card
	m.cards[card.ID] = &clone
	return nil
}

func (m *memStore) FindCardByID(_ context.Context, id int64) (*models.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return nil, models.ErrCardNotFound
	}
	clone := *card
	return &clone, nil
}

func (m *memStore) FindCardsByClient(_ context.Context, clientID int64) ([]models.Card, error) {
	var cards []models.Card
	for _, card := range m.cards {
		if card.ClientID == clientID {
			cards = append(cards, *card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (m *memStore) FindAllCards(_ context.Context) ([]models.Card, error) {
	var cards []models.Card
	for _, card := range m.cards {
		cards = append(cards, *card)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (m *memStore) UpdateCard(_ context.Context, card *models.Card) (bool, error) {
	if m.updateCardErr != nil {
		return false, m.updateCardErr
	}
	if _, ok := m.cards[card.ID]; !ok {
		return false, nil
	}
	clone := *card
	m.cards[card.ID] = &clone
	return true, nil
}

func (m *memStore) DeleteCard(_ context.Context, id int64) (bool, error) {
	if _, ok := m.cards[id]; !ok {
		return false, nil
	}
	delete(m.cards, id)
	return true, nil
}

func (m *memStore) CreateOperation(_ context.Context, op *models.Operation) error {
	op.ID = m.id()
	m.operations = append(m.operations, *op)
	return nil
}

func (m *memStore) FindOperationByID(_ context.Context, id int64) (*models.Operation, error) {
	for _, op := range m.operations {
		if op.ID == id {
			clone := op
			return &clone, nil
		}
	}
	return nil, models.ErrOperationNotFound
}

func (m *memStore) FindOperationsByCard(_ context.Context, cardID int64) ([]models.Operation, error) {
	var ops []models.Operation
	for _, op := range m.operations {
		if op.CardID == cardID {
			ops = append(ops, op)
		}
	}
	// Newest first, as the SQL store guarantees
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Date.After(ops[j].Date) })
	return ops, nil
}

func (m *memStore) FindOperationsByType(_ context.Context, opType models.OperationType) ([]models.Operation, error) {
	var ops []models.Operation
	for _, op := range m.operations {
		if op.Type == opType {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (m *memStore) FindOperationsByDateRange(_ context.Context, start, end time.Time) ([]models.Operation, error) {
	var ops []models.Operation
	for _, op := range m.operations {
		if !op.Date.Before(start) && !op.Date.After(end) {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (m *memStore) FindOperationsByCardAndDateRange(_ context.Context, cardID int64, start, end time.Time) ([]models.Operation, error) {
	var ops []models.Operation
	for _, op := range m.operations {
		if op.CardID == cardID && !op.Date.Before(start) && !op.Date.After(end) {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (m *memStore) FindAllOperations(_ context.Context) ([]models.Operation, error) {
	return append([]models.Operation(nil), m.operations...), nil
}

func (m *memStore) DeleteOperation(_ context.Context, id int64) (bool, error) {
	for i, op := range m.operations {
		if op.ID == id {
			m.operations = append(m.operations[:i], m.operations[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateAlert(_ context.Context, alert *models.Alert) error {
	if m.createAlertErr != nil {
		return m.createAlertErr
	}
	alert.ID = m.id()
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *memStore) FindAlertsByCard(_ context.Context, cardID int64) ([]models.Alert, error) {
	var alerts []models.Alert
	for _, alert := range m.alerts {
		if alert.CardID == cardID {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (m *memStore) FindAlertsByLevel(_ context.Context, level models.AlertLevel) ([]models.Alert, error) {
	var alerts []models.Alert
	for _, alert := range m.alerts {
		if alert.Level == level {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}

func (m *memStore) FindAllAlerts(_ context.Context) ([]models.Alert, error) {
	return append([]models.Alert(nil), m.alerts...), nil
}

func (m *memStore) DeleteAlert(_ context.Context, id int64) (bool, error) {
	for i, alert := range m.alerts {
		if alert.ID == id {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	user.ID = m.id()
	user.CreatedAt = time.Now()
	clone := *user
	m.users[user.Email] = &clone
	return nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
