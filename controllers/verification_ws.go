package controller

import (
	"context"
	"encoding/json"

	"github.com/gofiber/websocket/v2"

	"github.com/nibirhossain/email-validator-api/utils"
)

// HandleVerifyStreamWS verifies one address per incoming message until the
// client closes the connection. Messages are handled in order.
func (vc *VerificationController) HandleVerifyStreamWS(c *websocket.Conn) {
	defer c.Close()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				vc.Logger.WithError(err).Debug("websocket read failed")
			}
			return
		}

		var request verifyRequest
		if err := json.Unmarshal(msg, &request); err != nil {
			if err := c.WriteJSON(wsError(utils.CodeInvalidBody, "Message must be JSON")); err != nil {
				return
			}
			continue
		}
		if missingEmail(request.Email) {
			if err := c.WriteJSON(wsError(utils.CodeMissingEmail, "Missing required field: email")); err != nil {
				return
			}
			continue
		}

		verdict := vc.Verifier.VerifyInput(context.Background(), request.Email)
		if err := c.WriteJSON(verdict); err != nil {
			vc.Logger.WithError(err).Debug("websocket write failed")
			return
		}
	}
}

func wsError(code, message string) map[string]string {
	return map[string]string{"error": message, "code": code}
}
