package mapper

import (
	"encoding/json"
	"fmt"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) (*entity.User, error) {
	if u == nil {
		return nil, nil
	}
	predictions := make([]entity.PredictionRecord, 0, len(u.Predictions))
	for i := range u.Predictions {
		p, err := m.PredictionToEntity(&u.Predictions[i])
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}
	return &entity.User{
		Id:           u.Id,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		Predictions:  predictions,
	}, nil
}

// ToModel maps the account columns only; predictions are written through
// PredictionToModel so that appends never rewrite existing rows.
func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (m *UserMapper) PredictionToEntity(p *model.Prediction) (*entity.PredictionRecord, error) {
	if p == nil {
		return nil, nil
	}
	var features entity.Features
	if err := json.Unmarshal(p.InputFeatures, &features); err != nil {
		return nil, fmt.Errorf("prediction %d: %w", p.Seq, err)
	}
	return &entity.PredictionRecord{
		InputFeatures:  features,
		PredictedLabel: p.PredictedLabel,
		Message:        p.Message,
		CreatedAt:      p.CreatedAt,
	}, nil
}

func (m *UserMapper) PredictionToModel(user *entity.User, p *entity.PredictionRecord) (*model.Prediction, error) {
	raw, err := json.Marshal(p.InputFeatures)
	if err != nil {
		return nil, err
	}
	return &model.Prediction{
		UserId:         user.Id,
		InputFeatures:  datatypes.JSON(raw),
		PredictedLabel: p.PredictedLabel,
		Message:        p.Message,
		CreatedAt:      p.CreatedAt,
	}, nil
}
