package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
)

const maxFeedbackLength = 2000

// FeedbackService records testimonials and dashboard comments.
type FeedbackService struct {
	gate
	testimonials repository.TestimonialRepository
	comments     repository.CommentRepository
}

func NewFeedbackService(deps Dependencies) *FeedbackService {
	return &FeedbackService{
		gate:         newGate(deps),
		testimonials: deps.Repos.Testimonials,
		comments:     deps.Repos.Comments,
	}
}

// AddTestimonial stores a testimonial authored by the caller.
func (s *FeedbackService) AddTestimonial(ctx context.Context, idc auth.IdentityContext, comment string) (*domain.Testimonial, error) {
	if err := s.authorize(idc, auth.ActionAddComment); err != nil {
		return nil, err
	}
	text, err := feedbackText("comment", comment)
	if err != nil {
		return nil, err
	}

	testimonial := &domain.Testimonial{IdentityID: idc.ID(), Comment: text}
	if err := s.testimonials.Create(ctx, testimonial); err != nil {
		return nil, storageError(err)
	}
	return testimonial, nil
}

// AddComment stores a dashboard comment authored by the caller.
func (s *FeedbackService) AddComment(ctx context.Context, idc auth.IdentityContext, content string) (*domain.Comment, error) {
	if err := s.authorize(idc, auth.ActionAddComment); err != nil {
		return nil, err
	}
	text, err := feedbackText("content", content)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{IdentityID: idc.ID(), Content: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storageError(err)
	}
	return comment, nil
}

// ListTestimonials returns testimonials, newest first.
func (s *FeedbackService) ListTestimonials(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Testimonial, error) {
	if err := s.authorize(idc, auth.ActionViewFeedback); err != nil {
		return nil, err
	}
	list, err := s.testimonials.List(ctx, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func feedbackText(field, value string) (string, error) {
	errs := fieldErrors{}
	errs.require(field, value)
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxFeedbackLength {
		errs[field] = "must be at most 2000 characters"
	}
	return value, errs.err()
}
