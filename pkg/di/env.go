package di

// Secrets holds sensitive tokens for GitHub API authentication.
type Secrets struct {
	GitHubToken string
}

// SetFromEnv sets secrets from environment variables.
func (s *Secrets) SetFromEnv(getEnv func(string) string) {
	s.GitHubToken = getEnv("REFCHECK_GITHUB_TOKEN")
	if s.GitHubToken == "" {
		s.GitHubToken = getEnv("GITHUB_TOKEN")
	}
}

// SetEnv populates flags from environment variables.
// Values given by command line flags take precedence.
func SetEnv(flags *Flags, getEnv func(string) string) {
	if flags.GitHubRepository == "" {
		flags.GitHubRepository = getEnv("GITHUB_REPOSITORY")
	}
	flags.GitHubAPIURL = getEnv("GITHUB_API_URL")
	trueS := "true"
	flags.IsGitHubActions = getEnv("GITHUB_ACTIONS") == trueS
	flags.KeyringEnabled = getEnv("REFCHECK_KEYRING_ENABLED") == trueS
}
