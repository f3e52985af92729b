// Package seeksphere provides a client for the SeekSphere search and
// schema-management API.
//
// The client wraps the health, search, token and schema endpoints. Every call
// validates its input locally, sends one JSON request (retrying transient
// server responses internally) and returns either the decoded response body
// or one of three error types.
//
// # Usage
//
// Create a client with the API base URL and your organization id:
//
//	client, err := seeksphere.NewClient(seeksphere.Config{
//		BaseURL: "https://api.seeksphere.example",
//		APIKey:  "your-org-id",
//		Timeout: 30 * time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Search(ctx, seeksphere.SearchRequest{Query: "active users"}, seeksphere.SearchModeFull)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Operations return one of:
//
//   - *ValidationError: the input was rejected before any request was sent
//   - *APIError: the server answered outside 2xx (after internal retries) or sent an unreadable body
//   - *NetworkError: no usable response (timeout, TLS failure, connection failure)
//
// KindOf classifies an error for an exhaustive switch:
//
//	switch seeksphere.KindOf(err) {
//	case seeksphere.KindValidation:
//		// fix the input
//	case seeksphere.KindAPI:
//		var apiErr *seeksphere.APIError
//		errors.As(err, &apiErr)
//		if apiErr.IsRateLimited() {
//			// back off
//		}
//	case seeksphere.KindNetwork:
//		// check connectivity
//	}
//
// A Client is safe for concurrent use and stays usable after any error.
package seeksphere
