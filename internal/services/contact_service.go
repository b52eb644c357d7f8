package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/notify"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

// NoDBContactID is reported as the id of a submission the store could not keep.
const NoDBContactID = "no-db"

// ContactConfirmation is the message returned to a successful submitter.
const ContactConfirmation = "Thank you for your message! You'll receive a confirmation email shortly. I'll get back to you within 2 business days."

// ContactInput is the contact form payload.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// ContactStatusInput is the payload of a status transition. RepliedAt is
// always written, so omitting it clears the stored value.
type ContactStatusInput struct {
	Status    *string    `json:"status" validate:"omitempty,oneof=pending replied archived"`
	RepliedAt *time.Time `json:"repliedAt"`
}

// SubmitResult is what the submitter gets back.
type SubmitResult struct {
	ID      string
	Message string
	Stored  bool
}

// ContactService handles contact form submissions and their administration.
type ContactService struct {
	repo      repository.ContactRepository
	validator *validation.Validator
	composer  *notify.Composer
	notifier  Notifier
	logger    *zap.Logger
	now       Clock
}

// NewContactService creates a ContactService. A nil clock means time.Now in UTC.
func NewContactService(repo repository.ContactRepository, v *validation.Validator, composer *notify.Composer, notifier Notifier, logger *zap.Logger, now Clock) *ContactService {
	if now == nil {
		now = utcNow
	}
	return &ContactService{
		repo:      repo,
		validator: v,
		composer:  composer,
		notifier:  notifier,
		logger:    logger,
		now:       now,
	}
}

// Submit validates the form, stores it and queues the auto-reply and the admin alert.
// A store failure does not fail the submission: it is logged and the sentinel
// NoDBContactID is returned instead of a record id.
func (s *ContactService) Submit(ctx context.Context, in ContactInput, client ClientInfo) (*SubmitResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}

	result := &SubmitResult{ID: NoDBContactID, Message: ContactConfirmation}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		s.logger.Warn("could not save contact, continuing without the store", zap.Error(err))
	} else {
		result.ID = contact.ID
		result.Stored = true
	}

	s.dispatch(notify.Submission{
		Name:       in.Name,
		Email:      in.Email,
		Subject:    in.Subject,
		Message:    in.Message,
		IPAddress:  client.IPAddress,
		ReceivedAt: s.now(),
	})
	return result, nil
}

// dispatch queues both notifications independently; neither outcome reaches the caller.
func (s *ContactService) dispatch(sub notify.Submission) {
	if s.composer == nil || s.notifier == nil {
		return
	}
	if msg, err := s.composer.AutoReply(sub); err != nil {
		s.logger.Error("failed to compose auto-reply", zap.Error(err))
	} else {
		s.notifier.Enqueue(msg)
	}
	if msg, err := s.composer.AdminAlert(sub); err != nil {
		s.logger.Error("failed to compose admin alert", zap.Error(err))
	} else {
		s.notifier.Enqueue(msg)
	}
}

// List returns one page of contacts, newest first, optionally filtered by status.
func (s *ContactService) List(ctx context.Context, status string, req PageRequest) ([]models.Contact, models.Pagination, error) {
	page := req.resolve(DefaultPageLimit)
	contacts, total, err := s.repo.ListContacts(ctx, status, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return contacts, models.NewPagination(page.Page, page.Limit, total), nil
}

// UpdateStatus applies a status transition to the contact.
func (s *ContactService) UpdateStatus(ctx context.Context, id string, in ContactStatusInput) (*models.Contact, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	var status *models.ContactStatus
	if in.Status != nil {
		st := models.ContactStatus(*in.Status)
		status = &st
	}
	var repliedAt *time.Time
	if in.RepliedAt != nil {
		t := in.RepliedAt.UTC()
		repliedAt = &t
	}
	return s.repo.UpdateContactStatus(ctx, id, status, repliedAt)
}

// Delete removes a contact.
func (s *ContactService) Delete(ctx context.Context, id string) (*models.Contact, error) {
	return s.repo.DeleteContact(ctx, id)
}
