// Package integrations provides HTTP clients for artifact repositories.
//
// [Client] holds the plumbing every repository client needs: response
// caching through a [cache.Cache], retries with backoff for transient
// failures, and default headers. Repository-specific clients embed it:
//
//   - [maven]: Maven Central search and repository metadata
//
// Errors are reported through two sentinels, [ErrNotFound] and
// [ErrNetwork]; transient failures are additionally wrapped in
// [cache.RetryableError] so that [Client.Cached] retries them.
package integrations
