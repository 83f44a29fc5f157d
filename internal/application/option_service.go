package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/internal/domain/repository"
)

// OptionService edits the option collection of a product, one option at a
// time. Callers maintain the parent product's in-memory collection after
// each mutation; the service does not refresh the aggregate.
type OptionService struct {
	Store  repository.Factory
	Logger *logrus.Logger
}

func NewOptionService(store repository.Factory, logger *logrus.Logger) *OptionService {
	return &OptionService{Store: store, Logger: logger}
}

// AddOption persists a new option and returns it with the assigned
// identity and initial version.
func (s *OptionService) AddOption(ctx context.Context, o *entity.Option) (*entity.Option, error) {
	if o == nil {
		return nil, NewValidationError("option", "option is required")
	}

	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, operationFailed("the option could not be created", err)
	}
	defer st.Release()

	if err := st.Options().Insert(ctx, o); err != nil {
		var ce *repository.ConstraintError
		if errors.As(err, &ce) {
			s.Logger.WithError(err).WithField("product_id", o.ProductID).Warn("option insert rejected by store constraints")
			return nil, operationFailed("the option could not be created", err)
		}
		s.Logger.WithError(err).WithField("product_id", o.ProductID).Error("option insert failed")
		return nil, operationFailed("the option could not be created", err)
	}

	s.Logger.WithFields(logrus.Fields{"option": o.Name, "product_id": o.ProductID}).Info("option added")
	return o, nil
}

// UpdateOption replaces all fields of an existing option (full replace,
// not a partial patch). A concurrent modification since the option was
// read is a ConflictError; the caller should reload and retry.
func (s *OptionService) UpdateOption(ctx context.Context, o *entity.Option) (*entity.Option, error) {
	if o == nil {
		return nil, NewValidationError("option", "option is required")
	}

	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, operationFailed("the option could not be updated", err)
	}
	defer st.Release()

	if err := st.Options().Update(ctx, o); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.Logger.WithField("option_id", o.ID).Warn("option update conflicted with a concurrent change")
			return nil, &ConflictError{Field: "option", Message: "the option was modified by someone else, reload and try again"}
		}
		s.Logger.WithError(err).WithField("option_id", o.ID).Error("option update failed")
		return nil, operationFailed("the option could not be updated", err)
	}

	s.Logger.WithField("option_id", o.ID).Info("option updated")
	return o, nil
}

// DeleteOption removes an option by identity. Deleting an identity that
// does not exist completes without error.
func (s *OptionService) DeleteOption(ctx context.Context, id int64) error {
	st, err := s.Store.Acquire(ctx)
	if err != nil {
		return operationFailed("the option could not be deleted", err)
	}
	defer st.Release()

	if err := st.Options().Delete(ctx, id); err != nil {
		var ce *repository.ConstraintError
		if errors.As(err, &ce) {
			s.Logger.WithError(err).WithField("option_id", id).Error("option delete blocked by store constraints")
			return operationFailed("the option could not be deleted, it may be in use", err)
		}
		s.Logger.WithError(err).WithField("option_id", id).Error("option delete failed")
		return err
	}

	s.Logger.WithField("option_id", id).Info("option deleted")
	return nil
}
