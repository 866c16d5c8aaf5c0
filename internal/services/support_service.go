package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/infinito/platform/internal/events"
	"github.com/infinito/platform/internal/models"
	"go.uber.org/zap"
)

// SupportRepository is the interface that wraps access to support conversations and messages
type SupportRepository interface {
	// Method EnsureConversation retrieve the conversation of "studentID", creating it on first use.
	EnsureConversation(ctx context.Context, studentID int) (int, error)
	// Method ConversationIDByStudent retrieve the conversation of "studentID" without creating it.
	//
	// If the student never wrote to support, an error wrapping models.ErrNotFound is returned.
	ConversationIDByStudent(ctx context.Context, studentID int) (int, error)
	GetConversation(ctx context.Context, id int) (*models.SupportConversation, error)
	ListConversations(ctx context.Context) ([]models.SupportConversation, error)
	ListMessages(ctx context.Context) ([]models.SupportMessage, error)
	ListConversationMessages(ctx context.Context, conversationID int) ([]models.SupportMessage, error)
	CreateMessage(ctx context.Context, m *models.SupportMessage) error
	DeleteMessage(ctx context.Context, id int) error
	CountBySender(ctx context.Context) (*models.SupportStats, error)
}

// ChangePublisher announces committed writes to live admin screens
type ChangePublisher interface {
	Publish(ctx context.Context, table string, action events.Action, id int)
}

// SupportHours is the daily window in which staff answer support messages
type SupportHours struct {
	Start    int
	End      int
	Location *time.Location
}

// Open reports whether t falls inside [Start, End) in the configured location
func (h SupportHours) Open(t time.Time) bool {
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	return hour >= h.Start && hour < h.End
}

const botOutOfHoursReply = "Recebemos sua mensagem! Nosso atendimento funciona das %02dh às %02dh. " +
	"Você está na fila e responderemos assim que possível."

type supportService struct {
	repo      SupportRepository
	publisher ChangePublisher
	hours     SupportHours
	logger    *zap.Logger
	now       func() time.Time
}

// NewSupportService creates a new support service
func NewSupportService(repo SupportRepository, publisher ChangePublisher, hours SupportHours, logger *zap.Logger) *supportService {
	return &supportService{
		repo:      repo,
		publisher: publisher,
		hours:     hours,
		logger:    logger,
		now:       time.Now,
	}
}

// SendStudentMessage stores a student's message in their conversation.
// Outside support hours a bot reply is added to the same conversation.
// It returns the stored messages in order.
func (s *supportService) SendStudentMessage(ctx context.Context, studentID int, content string) ([]models.SupportMessage, error) {
	conversationID, err := s.repo.EnsureConversation(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation: %w", err)
	}

	now := s.now()
	sender := studentID
	msg := models.SupportMessage{
		ConversationID: conversationID,
		SenderID:       &sender,
		SenderType:     models.SenderStudent,
		Content:        content,
		CreatedAt:      now.UTC(),
	}
	if err := s.repo.CreateMessage(ctx, &msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSupportMessages, events.ActionInsert, msg.ID)
	stored := []models.SupportMessage{msg}

	if s.hours.Open(now) {
		return stored, nil
	}

	bot := models.SupportMessage{
		ConversationID: conversationID,
		SenderType:     models.SenderBot,
		Content:        fmt.Sprintf(botOutOfHoursReply, s.hours.Start, s.hours.End),
		CreatedAt:      now.UTC().Add(time.Millisecond),
	}
	if err := s.repo.CreateMessage(ctx, &bot); err != nil {
		// the student's message is stored; the triage reply is best effort
		s.logger.Warn("failed to store bot reply", zap.Int("conversation_id", conversationID), zap.Error(err))
		return stored, nil
	}
	s.publisher.Publish(ctx, events.TableSupportMessages, events.ActionInsert, bot.ID)
	return append(stored, bot), nil
}

// StudentMessages returns the messages of the student's conversation, oldest first
func (s *supportService) StudentMessages(ctx context.Context, studentID int) ([]models.SupportMessage, error) {
	conversationID, err := s.repo.ConversationIDByStudent(ctx, studentID)
	if errors.Is(err, models.ErrNotFound) {
		return []models.SupportMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	messages, err := s.repo.ListConversationMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// Reply adds an admin message to a conversation
func (s *supportService) Reply(ctx context.Context, adminID, conversationID int, content string) (*models.SupportMessage, error) {
	if _, err := s.repo.GetConversation(ctx, conversationID); err != nil {
		return nil, fmt.Errorf("failed to reply: %w", err)
	}

	sender := adminID
	msg := &models.SupportMessage{
		ConversationID: conversationID,
		SenderID:       &sender,
		SenderType:     models.SenderAdmin,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to reply: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSupportMessages, events.ActionInsert, msg.ID)
	return msg, nil
}

// Inbox returns every conversation reconstructed for the admin inbox
func (s *supportService) Inbox(ctx context.Context) ([]models.Conversation, error) {
	conversations, err := s.repo.ListConversations(ctx)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err))
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}
	messages, err := s.repo.ListMessages(ctx)
	if err != nil {
		s.logger.Error("failed to list support messages", zap.Error(err))
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}
	return Reconstruct(conversations, messages), nil
}

// Stats counts support messages by sender
func (s *supportService) Stats(ctx context.Context) (*models.SupportStats, error) {
	stats, err := s.repo.CountBySender(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get support stats: %w", err)
	}
	return stats, nil
}

// DeleteMessage permanently removes a message once confirmed
func (s *supportService) DeleteMessage(ctx context.Context, id int, confirm bool) error {
	if !confirm {
		return models.ErrConfirmationRequired
	}
	if err := s.repo.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.publisher.Publish(ctx, events.TableSupportMessages, events.ActionDelete, id)
	return nil
}

// Reconstruct groups messages into the given conversations.
//
// Messages are attached by their conversation ID and sorted oldest first; messages whose
// conversation is unknown are dropped. A conversation is pending until it holds an admin
// message. Conversations without messages are omitted, and the rest are ordered by their
// last message, newest first, with ties broken by conversation ID.
func Reconstruct(conversations []models.SupportConversation, messages []models.SupportMessage) []models.Conversation {
	byID := make(map[int]*models.Conversation, len(conversations))
	for _, c := range conversations {
		byID[c.ID] = &models.Conversation{
			ID:           c.ID,
			StudentID:    c.StudentID,
			StudentName:  c.StudentName,
			StudentEmail: c.StudentMail,
			Status:       models.ConversationPending,
		}
	}

	for _, m := range messages {
		conv, ok := byID[m.ConversationID]
		if !ok {
			continue
		}
		conv.Messages = append(conv.Messages, m)
		if m.SenderType == models.SenderAdmin {
			conv.Status = models.ConversationAnswered
		}
	}

	out := make([]models.Conversation, 0, len(byID))
	for _, conv := range byID {
		if len(conv.Messages) == 0 {
			continue
		}
		sort.SliceStable(conv.Messages, func(i, j int) bool {
			a, b := conv.Messages[i], conv.Messages[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		conv.LastMessageAt = conv.Messages[len(conv.Messages)-1].CreatedAt
		out = append(out, *conv)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
