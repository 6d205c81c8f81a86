package utils

// AccessToken is the claims payload minted by the external identity service
// and verified at this API's boundary. Issuance, refresh and revocation live
// with the identity service; this server only consumes the HS256-signed
// access token.
type AccessToken struct {
	UserID string `json:"userID"`
}
