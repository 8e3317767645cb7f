package mailservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/blogspot/internal/common"
)

func TestSendWelcomeEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	mockMC.On("Consume", common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue).Return(nil, nil)
	mockLogger.On("Info", mock.Anything, mock.Anything).Return()
	mockLogger.On("Error", mock.Anything, mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:     mockMC,
		m:      mockMailer,
		logger: mockLogger,
		ctx:    ctx,
		cancel: cancel,
	}
	t.Cleanup(s.Close)

	s.SendWelcomeEmail()

	assert.Eventually(t, mockMailer.IsCalled, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "test@example.com", mockMailer.GetEmail())

	mockMC.AssertExpectations(t)
}
