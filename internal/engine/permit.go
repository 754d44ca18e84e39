package engine

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"questvault/internal/storage"
)

// PermissionOwner grants a permit holder full read access to the signer's
// own data.
const PermissionOwner = "owner"

const addressPrefix = "qv1"

// PermitClaims is the signed body of a permit. The signer proves control of
// Subject by signing with the key in PublicKey.
type PermitClaims struct {
	jwt.RegisteredClaims
	PublicKey   string   `json:"pub"`
	Permissions []string `json:"permissions"`
}

// AddressFromPublicKey derives the canonical address for an Ed25519 key.
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return addressPrefix + hex.EncodeToString(sum[:20])
}

type permitKey struct {
	address string
	name    string
}

// RevocationSet holds revoked (signer, permit name) pairs.
type RevocationSet map[permitKey]struct{}

func (s RevocationSet) Add(address, name string) {
	s[permitKey{address: address, name: name}] = struct{}{}
}

func (s RevocationSet) Contains(address, name string) bool {
	_, ok := s[permitKey{address: address, name: name}]
	return ok
}

// SignPermit issues a permit named name, valid for targets, signed by priv.
// A zero ttl means the permit does not expire.
func SignPermit(priv ed25519.PrivateKey, name string, targets []string, permissions []string, issuedAt time.Time, ttl time.Duration) (string, error) {
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return "", errors.New("permit: unsupported key type")
	}
	claims := PermitClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       name,
			Subject:  AddressFromPublicKey(pub),
			Audience: jwt.ClaimStrings(targets),
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		PublicKey:   base64.StdEncoding.EncodeToString(pub),
		Permissions: permissions,
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(priv)
}

// PermitSubject reads the claimed signer without verifying anything. It is
// only good for choosing which revocations to load.
func PermitSubject(token string) (string, error) {
	var claims PermitClaims
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), &claims); err != nil {
		return "", ErrAuthFailure
	}
	return claims.Subject, nil
}

// VerifyPermit checks a permit and returns the signer's address. Revocation
// is checked before any signature work. Every failure is ErrAuthFailure.
func VerifyPermit(token, expectedTarget string, revoked RevocationSet, now time.Time) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrAuthFailure
	}

	var peek PermitClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &peek); err != nil {
		return "", ErrAuthFailure
	}
	if peek.Subject == "" || peek.ID == "" || revoked.Contains(peek.Subject, peek.ID) {
		return "", ErrAuthFailure
	}

	var claims PermitClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*PermitClaims)
		if !ok {
			return nil, errors.New("unexpected claims type")
		}
		raw, err := base64.StdEncoding.DecodeString(c.PublicKey)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			return nil, errors.New("invalid permit public key")
		}
		return ed25519.PublicKey(raw), nil
	})
	if err != nil {
		return "", ErrAuthFailure
	}

	raw, _ := base64.StdEncoding.DecodeString(claims.PublicKey)
	if claims.Subject != AddressFromPublicKey(ed25519.PublicKey(raw)) {
		return "", ErrAuthFailure
	}
	if !slices.Contains([]string(claims.Audience), expectedTarget) {
		return "", ErrAuthFailure
	}
	if !slices.Contains(claims.Permissions, PermissionOwner) {
		return "", ErrAuthFailure
	}
	return claims.Subject, nil
}

// resolvePermit loads the signer's revocations and verifies token against
// this engine's own address.
func (s *Service) resolvePermit(ctx context.Context, st *storage.Stores, cfg *storage.Config, token string) (string, error) {
	subject, err := PermitSubject(token)
	if err != nil {
		return "", err
	}
	names, err := st.Revocations.Names(ctx, subject)
	if err != nil {
		return "", err
	}
	revoked := RevocationSet{}
	for _, n := range names {
		revoked.Add(subject, n)
	}
	return VerifyPermit(token, cfg.SelfAddress, revoked, s.now())
}

// RevokePermit marks the caller's permit name as revoked. Revoking an unknown
// or already revoked name succeeds.
func (s *Service) RevokePermit(ctx context.Context, call Call, name string) (*Response, error) {
	return s.exec(ctx, call, "revoke_permit", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return newError(KindInvalidState, "permit name is required")
		}
		if strings.TrimSpace(call.Sender) == "" {
			return ErrUnauthorized
		}
		if err := st.Revocations.Revoke(ctx, call.Sender, name, call.unix()); err != nil {
			return err
		}
		res.attr("revoked", name)
		return nil
	})
}
