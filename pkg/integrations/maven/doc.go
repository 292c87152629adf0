// Package maven provides an HTTP client for Maven Central.
//
// [Client.LatestVersion] answers `pomedit add g:a` when no version is
// given. It reads maven-metadata.xml from the repository and falls back to
// [Client.Search] when the metadata lists no usable release.
//
// Both endpoints are configurable so that mirrors and test servers can
// stand in for Maven Central:
//
//	client := maven.NewClient(store, 24*time.Hour).
//	    WithRepositoryURL("https://repo.example.com/maven2")
//	v, err := client.LatestVersion(ctx, "junit", "junit", false)
//
// Responses are cached through [integrations.Client]; pass refresh=true to
// bypass the cache.
package maven
