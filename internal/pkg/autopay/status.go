package autopay

import (
	"strings"

	"github.com/ezla-online/portal/internal/domain/model"
)

// MapStatus normalises the gateway status vocabulary. Anything that is not a
// known success or failure alias stays pending.
func MapStatus(status string) model.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "CONFIRMED":
		return model.PaymentStatusSuccess
	case "FAILURE", "CANCELLED", "REJECTED":
		return model.PaymentStatusFail
	default:
		return model.PaymentStatusPending
	}
}
