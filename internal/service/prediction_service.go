package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"disease-predictor-be/internal/dto"
	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/pkg/events"
	"disease-predictor-be/pkg/inference"
	"disease-predictor-be/pkg/utils"
)

type IPredictionService interface {
	// Submit runs one feature vector through the model and records the
	// outcome on the account. raw is keyed by form field name.
	Submit(ctx context.Context, username string, raw map[string]string) (*entity.PredictionRecord, error)
	History(ctx context.Context, username string) (*entity.User, error)
}

type predictionService struct {
	users     contract.UserRepository
	predictor inference.Predictor
	publisher events.Publisher
	logger    logger.ILogger
}

func NewPredictionService(users contract.UserRepository, predictor inference.Predictor, publisher events.Publisher, log logger.ILogger) IPredictionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &predictionService{
		users:     users,
		predictor: predictor,
		publisher: publisher,
		logger:    log,
	}
}

// ParseFeatures reads the named slots. Unparseable or missing input becomes
// NaN instead of failing the request.
func ParseFeatures(raw map[string]string) entity.Features {
	features := entity.NewFeatures()
	for i := range features {
		features[i] = utils.ParseLooseFloat(raw[dto.FeatureKey(i+1)])
	}
	return features
}

func (s *predictionService) Submit(ctx context.Context, username string, raw map[string]string) (*entity.PredictionRecord, error) {
	// 1. Resolve account
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}

	// 2. Parse
	features := ParseFeatures(raw)

	// 3. Inference, single logical call
	result, err := s.predictor.Predict(ctx, features)
	if err != nil {
		s.logger.Error("PredictionService", "Inference call failed", map[string]interface{}{
			"username": username,
			"error":    err,
		})
		s.publish(ctx, events.New(events.TypeInferenceFailed, map[string]interface{}{"username": username}))
		if !errors.Is(err, entity.ErrInferenceUnavailable) {
			err = fmt.Errorf("%w: %v", entity.ErrInferenceUnavailable, err)
		}
		return nil, err
	}

	// 4. Record
	record := &entity.PredictionRecord{
		InputFeatures:  features,
		PredictedLabel: result.Label,
		Message:        result.Message,
		CreatedAt:      time.Now(),
	}
	if err := s.users.AppendPrediction(ctx, username, record); err != nil {
		// The model answered but the history does not have it.
		s.logger.Error("PredictionService", "Prediction computed but not recorded", map[string]interface{}{
			"username":   username,
			"prediction": record.PredictedLabel,
			"message":    record.Message,
			"error":      err,
		})
		s.publish(ctx, events.New(events.TypePredictionUnsaved, map[string]interface{}{
			"username":   username,
			"prediction": record.PredictedLabel,
		}))
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, err
		}
		if !errors.Is(err, entity.ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
		}
		return nil, err
	}

	s.logger.Info("PredictionService", "Prediction recorded", map[string]interface{}{
		"username":   username,
		"prediction": record.PredictedLabel,
		"history":    len(user.Predictions) + 1,
	})
	s.publish(ctx, events.New(events.TypePredictionRecorded, map[string]interface{}{
		"user_id":    user.Id.String(),
		"username":   username,
		"prediction": record.PredictedLabel,
		"message":    record.Message,
	}))

	return record, nil
}

func (s *predictionService) History(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}

func (s *predictionService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("PredictionService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
