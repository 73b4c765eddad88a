/*
Package authsdk provides a client SDK for interacting with the CliniCore
authentication service.

# Overview

The authsdk package implements a typed HTTP client for the CliniCore
authentication service. It provides both unauthenticated operations (via
Client) and authenticated operations (via Session) with automatic token
refresh.

# Client vs Session

The package is organized around two main types:

  - Client: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create a Client to interact with public endpoints and initiate authentication:

	client := authsdk.NewClient("https://auth.example.com")

	// Check service health
	health, err := client.Readyz(ctx)

	// Create an account (always provisioned as a patient)
	user, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "secret",
	})

	// Authenticate to create a session
	session, err := client.Login(ctx, "jdoe@example.com", "secret")

Use a Session for authenticated operations. Sessions automatically handle
token expiration and refresh:

	// Get the caller's own profile
	me, err := session.Me(ctx)

	// Update the caller's own profile
	me, err = session.UpdateMe(ctx, authsdk.UpdateUserRequest{Phone: &phone})

	// Administer accounts (admin role required)
	list, err := session.ListUsers(ctx)
	err = session.DeleteUser(ctx, userID)

# Automatic Token Refresh

Sessions automatically refresh access tokens when they expire. All Session
methods call getValidToken() internally, which:

 1. Checks if the access token is still valid (with 30-second buffer)
 2. If expired, uses the refresh token to obtain a new access token
 3. Updates the session with the new token

You never need to manually refresh tokens when using Session methods. The
refresh token itself is fixed for the lifetime of the session; once it
expires or is revoked the next refresh fails and the caller must log in
again.

# Role Requirements

Each authenticated operation is authorized server-side by the caller's role.
Any authenticated account may read and update its own profile; the user
administration operations (ListUsers, GetUser, UpdateUser, DeleteUser)
succeed for admins, and for non-admins only when the target is the caller's
own account.

# Error Handling

Failed requests return *APIError carrying the HTTP status and the service's
machine-readable error code:

	_, err := session.GetUser(ctx, otherID)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Code)
	}

APIError implements Is() by code, so sentinel comparisons work too:

	if errors.Is(err, authsdk.ErrForbidden) {
		// caller lacks the required role
	}

# Thread Safety

Sessions are safe for concurrent use. Session methods lock around token
access, so multiple goroutines can share a single Session and make
authenticated requests concurrently.

# Examples

Complete authentication and API usage:

	client := authsdk.NewClient("https://auth.example.com")

	session, err := client.Login(context.Background(), "jdoe@example.com", "secret")
	if err != nil {
		log.Fatal(err)
	}

	me, err := session.Me(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Logged in as: %s (%s)\n", me.Username, me.Role)

	// Revoke the refresh token when done
	err = session.Logout(context.Background())
*/
package authsdk
