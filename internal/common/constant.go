package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// GuestIdentity is the author identity stamped on entries written by an
// unauthenticated, device-local session.
const GuestIdentity = "guest"

// GuestDisplayName is the display name of the device-local profile.
const GuestDisplayName = "Guest User"
