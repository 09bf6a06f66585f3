// Package limits exposes the plan limit checks over HTTP.
//
// POST /check takes {"action": "<name>"} and answers with the decision for
// that action; counting actions return {allowed, current, max, reason?}
// and export actions return {allowed}. Unknown actions and malformed
// bodies are rejected with 400 before any lookup runs. Internal failures
// are logged and reported as a generic 500.
//
// GET /test lists the caller's plan, its limits and the outcome of every
// action. It is meant for development and answers 404 in production.
package limits
