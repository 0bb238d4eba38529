// Package apiclient is the authenticated HTTP client for the shop-visit
// reporting API.
//
// Every request carries a generated X-Request-ID and, when the session store
// holds a bearer token, an Authorization header. Responses are classified
// into a small error taxonomy:
//
//   - ErrNotAuthenticated: any 401. On non-login endpoints the client also
//     clears the stored token and cached profile, but only when the token is
//     provably expired; an ambiguous 401 is surfaced untouched so the guard
//     can attempt a renewal first.
//   - *ValidationError: 422 with structured field errors.
//   - *RequestError: any other non-2xx, carrying the server-provided detail
//     or a generic status message.
//   - transport errors: wrapped and propagated as-is.
//
// The client never swallows a non-2xx response, and it only mutates session
// state when expiration is proven. Everything ambiguous is the caller's
// decision.
//
// Usage:
//
//	client, err := apiclient.New("https://reports.example.com/api", store,
//		apiclient.WithTimeout(10*time.Second),
//		apiclient.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	var visits []ShopVisit
//	if err := client.Call(ctx, http.MethodGet, "/shop-visits?limit=50", nil, &visits); err != nil {
//		var verr *apiclient.ValidationError
//		switch {
//		case errors.Is(err, apiclient.ErrNotAuthenticated):
//			// redirect to login
//		case errors.As(err, &verr):
//			// show field errors
//		}
//	}
package apiclient
