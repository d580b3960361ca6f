// Package auth holds the identity core of the job portal: password hashing,
// signed session tokens, the cookie gate and user registration.
//
// Sessions:
//   - TokenService signs HS256 tokens whose subject is the user id. Tokens
//     live for one day unless configured otherwise and carry no server state,
//     so a token stays valid until it expires.
//   - RouteAuthenticator writes the token into the "token" cookie (HttpOnly,
//     SameSite=Strict, Max-Age equal to the token lifetime) and its gate
//     rejects requests without a verifiable cookie with a 401.
//
// Credentials:
//   - Every failed login, whatever the cause, returns ErrMismatchedHashAndPassword.
//   - RegisterUserHandler stores a bcrypt digest and refuses duplicated
//     emails with ErrIdentifierTaken. Registration never issues a token.
//
// Activity:
//   - ActivitySink receives login and registration events. Sinks are best
//     effort and their errors are only logged.
package auth
