package engine

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"questvault/internal/storage"
)

// ViewingCredential is what a caller presents to read scoped data.
type ViewingCredential struct {
	Address string
	Key     string
}

// HashViewingKey is the one-way keyed hash stored in place of a secret.
func HashViewingKey(credentialKey []byte, secret string) string {
	mac := hmac.New(sha256.New, credentialKey)
	_, _ = mac.Write([]byte(secret))
	return hex.EncodeToString(mac.Sum(nil))
}

// matchCredential compares a presented credential against a stored one. It
// hashes even when nothing is stored so both failure paths cost the same.
func matchCredential(stored *storage.ViewerInfo, credentialKey []byte, cred ViewingCredential) error {
	got := HashViewingKey(credentialKey, cred.Key)
	if stored == nil {
		return ErrAuthFailure
	}
	hashOK := hmac.Equal([]byte(got), []byte(stored.KeyHash))
	addrOK := subtle.ConstantTimeCompare([]byte(cred.Address), []byte(stored.Address)) == 1
	if !hashOK || !addrOK {
		return ErrAuthFailure
	}
	return nil
}

// CheckAdminCredential verifies cred against the single admin slot.
func CheckAdminCredential(ctx context.Context, st *storage.Stores, cfg *storage.Config, cred ViewingCredential) error {
	stored, err := st.Credentials.Admin(ctx)
	if err != nil {
		return err
	}
	return matchCredential(stored, cfg.CredentialKey, cred)
}

// CheckUserCredential verifies cred against the credential stored for its
// address.
func CheckUserCredential(ctx context.Context, st *storage.Stores, cfg *storage.Config, cred ViewingCredential) error {
	stored, err := st.Credentials.User(ctx, cred.Address)
	if err != nil {
		return err
	}
	return matchCredential(stored, cfg.CredentialKey, cred)
}

// SetViewingCredential stores the hash of secret for the caller. The owner
// writes the admin slot; everyone else writes their own entry. A new secret
// replaces the old one.
func (s *Service) SetViewingCredential(ctx context.Context, call Call, secret string) (*Response, error) {
	return s.exec(ctx, call, "set_viewing_key", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if strings.TrimSpace(secret) == "" {
			return newError(KindInvalidState, "viewing key must not be empty")
		}
		if strings.TrimSpace(call.Sender) == "" {
			return ErrUnauthorized
		}
		info := storage.ViewerInfo{Address: call.Sender, KeyHash: HashViewingKey(cfg.CredentialKey, secret)}
		if IsOwner(cfg, call.Sender) {
			if err := st.Credentials.SetAdmin(ctx, info); err != nil {
				return err
			}
		} else if err := st.Credentials.SetUser(ctx, info); err != nil {
			return err
		}
		res.attr("status", "success")
		return nil
	})
}
