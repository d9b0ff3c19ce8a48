package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"bank-risk-service/internal/models"
)

// ClientService handles client management
type ClientService struct {
	clients clientStore
	log     *logrus.Logger
}

// NewClientService initializes a new client service
func NewClientService(clients clientStore, log *logrus.Logger) *ClientService {
	return &ClientService{clients: clients, log: log}
}

// CreateClient registers a new client. Emails must be unique.
func (s *ClientService) CreateClient(ctx context.Context, name, email, phone string) (*models.Client, error) {
	_, err := s.clients.FindClientByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("create client: %w", models.ErrEmailAlreadyExists)
	}
	if !errors.Is(err, models.ErrClientNotFound) {
		return nil, err
	}

	client := &models.Client{Name: name, Email: email, Phone: phone}
	if err := s.clients.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	s.log.Infof("Client %d registered: %s", client.ID, client.Email)
	return client, nil
}

// GetClient retrieves a client by identifier
func (s *ClientService) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return s.clients.FindClientByID(ctx, id)
}

// GetAllClients lists every client
func (s *ClientService) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return s.clients.FindAllClients(ctx)
}

// SearchByEmail retrieves a client by email
func (s *ClientService) SearchByEmail(ctx context.Context, email string) (*models.Client, error) {
	return s.clients.FindClientByEmail(ctx, email)
}

// SearchByPhone retrieves a client by phone number
func (s *ClientService) SearchByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return s.clients.FindClientByPhone(ctx, phone)
}

// UpdateClient updates an existing client's details
func (s *ClientService) UpdateClient(ctx context.Context, client *models.Client) (bool, error) {
	if _, err := s.clients.FindClientByID(ctx, client.ID); err != nil {
		return false, err
	}
	return s.clients.UpdateClient(ctx, client)
}

// DeleteClient removes a client
func (s *ClientService) DeleteClient(ctx context.Context, id int64) (bool, error) {
	if _, err := s.clients.FindClientByID(ctx, id); err != nil {
		return false, err
	}
	deleted, err := s.clients.DeleteClient(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Infof("Client %d deleted", id)
	}
	return deleted, nil
}
