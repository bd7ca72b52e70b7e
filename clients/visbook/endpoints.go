package visbook

import "fmt"

// Visbook scopes every endpoint under a web entity (tenant/site) id.

func loginEmailPath(webEntity int) string {
	return fmt.Sprintf("/api/%d/login/request/email", webEntity)
}

func loginSMSPath(webEntity int) string {
	return fmt.Sprintf("/api/%d/login/request/sms", webEntity)
}

func validateEmailPath(webEntity int, token string) string {
	return fmt.Sprintf("/api/%d/validation/email/%s", webEntity, token)
}

func validateMobilePath(webEntity int, token string) string {
	return fmt.Sprintf("/api/%d/validation/mobile/%s", webEntity, token)
}

func reservationsPath(webEntity int) string {
	return fmt.Sprintf("/api/%d/reservations", webEntity)
}

func reservationsPingPath(webEntity int) string {
	return fmt.Sprintf("/api/%d/reservations/ping", webEntity)
}

func reservationUpdatePath(webEntity int, encryptedCompanyID, reservationID string) string {
	return fmt.Sprintf("/api/%d/reservations/%s/%s", webEntity, encryptedCompanyID, reservationID)
}

func checkoutPath(webEntity int) string {
	return fmt.Sprintf("/api/%d/checkout", webEntity)
}
