package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *RemoteDocsError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *RemoteDocsError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Remote tree errors

func NetworkError(url string, cause error) *RemoteDocsError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "network request failed").
		WithContext("url", url)
}

func ForgeStatus(repo string, status int, cause error) *RemoteDocsError {
	e := Wrap(cause, CategoryForge, SeverityWarning, "unexpected forge response").
		WithContext("repository", repo).
		WithContext("status", status)
	// Server side and rate limit responses are worth another attempt.
	if status >= 500 || status == 429 {
		e.Retryable = true
	}
	return e
}

func ForgeAuthError(repo string, cause error) *RemoteDocsError {
	return Wrap(cause, CategoryAuth, SeverityWarning, "forge authentication failed").
		WithContext("repository", repo)
}

func DecodeError(repo string, cause error) *RemoteDocsError {
	return Wrap(cause, CategoryDecode, SeverityWarning, "malformed tree response").
		WithContext("repository", repo)
}

func TruncatedTree(repo string) *RemoteDocsError {
	return New(CategoryForge, SeverityWarning, "tree listing truncated by forge").
		WithContext("repository", repo)
}

func GitListError(repo string, cause error) *RemoteDocsError {
	return WrapRetryable(cause, CategoryGit, SeverityWarning, "git tree listing failed").
		WithContext("repository", repo)
}

// Output errors

func OutputError(path string, cause error) *RemoteDocsError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to write site configuration").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *RemoteDocsError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
