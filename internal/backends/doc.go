// Package backends implements the RepairBackend interface for each supported
// external repair service.
//
// Supported providers: OpenAI (and any OpenAI-compatible endpoint), Anthropic,
// Google (Gemini), and Ollama / LMStudio for local models. All speak plain
// REST over net/http.
//
// All backends share a common retry helper with exponential back-off and
// rate-limit handling. A backend receives the malformed block serialized as
// JSON together with the validation errors and must return a complete
// replacement block; responses are tolerant of code-fence wrapping.
//
// Use [New] to obtain a RepairBackend from a config entry and [FromConfig]
// to build the ordered chain, skipping entries whose credentials are absent.
package backends
