// Package cli implements the vidgram command-line client.
//
// Each command resolves configuration in the root command's pre-run hook,
// then connects the API client, the durable token store and the session,
// restores any stored login and runs against the service layer:
//
//	vidgram login --email ana@example.com
//	vidgram users --pages 2
//	vidgram follow u7
//	vidgram requests approve req3
//
// Output is a plain table by default, or JSON with --output json.
package cli
