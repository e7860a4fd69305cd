package token

import (
	"errors"
	"time"

	"go-approvals/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidTokenFormat = errors.New("approval token cannot be parsed")
	ErrTokenIntegrity     = errors.New("approval token failed integrity check")
	ErrTokenExpired       = errors.New("approval token expired")
)

// Codec mints and decodes approval tokens. Tokens are HMAC-signed, fully
// self-describing payloads: email links must survive without server-side
// session state, and only this service ever needs to read them, so a
// symmetric scheme is sufficient.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
	}
}

type approvalClaims struct {
	TaskID       int    `json:"task_id"`
	ApproverID   string `json:"approver_id"`
	SourceModule string `json:"source_module"`
	SourceID     string `json:"source_id"`
	Action       string `json:"action"`
	jwt.RegisteredClaims
}

// Mint signs data into an opaque token string. A missing nonce is filled
// with a fresh UUID; a missing issue time defaults to now. Mint itself is
// side-effect free, persistence of the issued Record is the caller's job.
func (c *Codec) Mint(data TokenData) (string, TokenData, error) {
	if data.Nonce == "" {
		data.Nonce = uuid.NewString()
	}
	if data.IssuedAt == 0 {
		data.IssuedAt = time.Now().Unix()
	}

	issued := time.Unix(data.IssuedAt, 0)
	claims := approvalClaims{
		TaskID:       data.TaskID,
		ApproverID:   data.ApproverID,
		SourceModule: data.SourceModule,
		SourceID:     data.SourceID,
		Action:       data.Action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        data.Nonce,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", TokenData{}, err
	}
	return signed, data, nil
}

// Decode parses and verifies a token string. Expiry is only ever checked
// here, lazily; there is no sweeping job invalidating tokens.
func (c *Codec) Decode(tokenString string) (*TokenData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &approvalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrTokenIntegrity
		default:
			return nil, ErrInvalidTokenFormat
		}
	}

	claims, ok := parsed.Claims.(*approvalClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenIntegrity
	}

	data := &TokenData{
		TaskID:       claims.TaskID,
		ApproverID:   claims.ApproverID,
		SourceModule: claims.SourceModule,
		SourceID:     claims.SourceID,
		Action:       claims.Action,
		Nonce:        claims.ID,
	}
	if claims.IssuedAt != nil {
		data.IssuedAt = claims.IssuedAt.Unix()
	}
	return data, nil
}
