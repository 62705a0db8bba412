package mappers

import (
	"github.com/merdocx/veilbot/internal/domain/payment"
	"github.com/merdocx/veilbot/internal/infrastructure/persistence/models"
	"github.com/merdocx/veilbot/internal/shared/mapper"
)

type PaymentMapper interface {
	ToEntity(model *models.PaymentModel) (*payment.Payment, error)
	ToEntities(models []*models.PaymentModel) ([]*payment.Payment, error)
}

type PaymentMapperImpl struct{}

func NewPaymentMapper() PaymentMapper {
	return &PaymentMapperImpl{}
}

func (m *PaymentMapperImpl) ToEntity(model *models.PaymentModel) (*payment.Payment, error) {
	if model == nil {
		return nil, nil
	}

	return &payment.Payment{
		ID:             model.ID,
		UserID:         model.UserID,
		SubscriptionID: model.SubscriptionID,
		Amount:         model.Amount,
		Status:         payment.Status(model.Status),
		CreatedAt:      model.CreatedAt,
	}, nil
}

func (m *PaymentMapperImpl) ToEntities(modelList []*models.PaymentModel) ([]*payment.Payment, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.PaymentModel) uint { return model.ID })
}
