package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/codr1/padelbook/internal/api/authz"
	dbgen "github.com/codr1/padelbook/internal/db/generated"
)

const sessionCookieName = "__session"

var (
	queries     dbgen.Querier
	phoneRegion = "FR"
	initOnce    sync.Once

	// clerkInitialized indicates whether the Clerk SDK has been initialized
	clerkInitialized bool

	// Replaced in tests.
	verifySessionToken = func(ctx context.Context, token string) (string, error) {
		claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	}
	fetchClerkUser = func(ctx context.Context, id string) (*clerk.User, error) {
		return user.Get(ctx, id)
	}
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q dbgen.Querier, region string) {
	if q == nil {
		return
	}
	initOnce.Do(func() {
		queries = q
		if region != "" {
			phoneRegion = strings.ToUpper(region)
		}
	})
}

// InitClerk initializes Clerk SDK with the secret key
func InitClerk(secretKey string) {
	if secretKey == "" {
		log.Warn().Msg("Clerk secret key not configured")
		return
	}
	clerk.SetKey(secretKey)
	clerkInitialized = true
	log.Info().Msg("Clerk SDK initialized")
}

// NormalizePhone returns the E.164 form of raw, or "" when raw is not a valid
// number. Numbers without a country code are read in region.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// sessionToken reads the Clerk session token from the Authorization header
// or, for browser requests, the session cookie.
func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// UserFromRequest verifies the request's Clerk session and returns the
// matching member. It returns nil without error when the request carries no
// valid session.
func UserFromRequest(r *http.Request) (*authz.AuthUser, error) {
	if !clerkInitialized {
		return nil, nil
	}
	token := sessionToken(r)
	if token == "" {
		return nil, nil
	}

	subject, err := verifySessionToken(r.Context(), token)
	if err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid Clerk session token")
		return nil, nil
	}

	member, err := ResolveMember(r.Context(), subject)
	if errors.Is(err, sql.ErrNoRows) {
		log.Ctx(r.Context()).Warn().Str("clerk_user_id", subject).Msg("Clerk user has no matching member")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &authz.AuthUser{
		ID:         member.ID,
		ExternalID: subject,
		Email:      member.Email,
		Role:       member.Role,
	}, nil
}

// ResolveMember finds the member for a Clerk user id. Members are
// pre-registered; the first sign-in matches them by email or phone and links
// the Clerk id for later requests.
func ResolveMember(ctx context.Context, clerkUserID string) (dbgen.Member, error) {
	if queries == nil {
		return dbgen.Member{}, errors.New("database not initialized")
	}

	member, err := queries.GetMemberByExternalID(ctx, sql.NullString{String: clerkUserID, Valid: true})
	if err == nil {
		return member, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return dbgen.Member{}, fmt.Errorf("lookup member by clerk id: %w", err)
	}

	clerkUser, err := fetchClerkUser(ctx, clerkUserID)
	if err != nil {
		return dbgen.Member{}, fmt.Errorf("get clerk user %s: %w", clerkUserID, err)
	}
	member, err = findMemberFromClerk(ctx, clerkUser)
	if err != nil {
		return dbgen.Member{}, err
	}

	if member.ExternalID.Valid && member.ExternalID.String != clerkUserID {
		log.Ctx(ctx).Warn().
			Int64("member_id", member.ID).
			Str("clerk_user_id", clerkUserID).
			Msg("Member already linked to another Clerk user")
		return dbgen.Member{}, sql.ErrNoRows
	}
	if err := queries.SetMemberExternalID(ctx, dbgen.SetMemberExternalIDParams{
		ExternalID: sql.NullString{String: clerkUserID, Valid: true},
		ID:         member.ID,
	}); err != nil {
		return dbgen.Member{}, fmt.Errorf("link clerk id to member %d: %w", member.ID, err)
	}
	member.ExternalID = sql.NullString{String: clerkUserID, Valid: true}

	log.Ctx(ctx).Info().Int64("member_id", member.ID).Str("clerk_user_id", clerkUserID).Msg("Linked Clerk user to member")
	return member, nil
}

// findMemberFromClerk looks up the member by email or phone from Clerk user data
func findMemberFromClerk(ctx context.Context, clerkUser *clerk.User) (dbgen.Member, error) {
	// Try primary email first
	if clerkUser.PrimaryEmailAddressID != nil {
		for _, email := range clerkUser.EmailAddresses {
			if email.ID == *clerkUser.PrimaryEmailAddressID {
				member, err := queries.GetMemberByEmail(ctx, email.EmailAddress)
				if err == nil {
					return member, nil
				}
				if !errors.Is(err, sql.ErrNoRows) {
					return dbgen.Member{}, err
				}
				break
			}
		}
	}

	// Try primary phone
	if clerkUser.PrimaryPhoneNumberID != nil {
		for _, phone := range clerkUser.PhoneNumbers {
			if phone.ID == *clerkUser.PrimaryPhoneNumberID {
				member, err := memberByPhone(ctx, phone.PhoneNumber)
				if err == nil {
					return member, nil
				}
				if !errors.Is(err, sql.ErrNoRows) {
					return dbgen.Member{}, err
				}
				break
			}
		}
	}

	// Try all emails
	for _, email := range clerkUser.EmailAddresses {
		member, err := queries.GetMemberByEmail(ctx, email.EmailAddress)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return dbgen.Member{}, err
		}
	}

	// Try all phones
	for _, phone := range clerkUser.PhoneNumbers {
		member, err := memberByPhone(ctx, phone.PhoneNumber)
		if err == nil {
			return member, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return dbgen.Member{}, err
		}
	}

	return dbgen.Member{}, sql.ErrNoRows
}

func memberByPhone(ctx context.Context, raw string) (dbgen.Member, error) {
	normalized := NormalizePhone(raw, phoneRegion)
	if normalized == "" {
		// Invalid phone format, try other identifiers
		return dbgen.Member{}, sql.ErrNoRows
	}
	return queries.GetMemberByPhone(ctx, sql.NullString{String: normalized, Valid: true})
}
