package execshell

const (
	commandNixPrefetchGitStringConstant = "nix-prefetch-git"
)

// CommandName identifies an executable invoked through the shell executor.
type CommandName string

// CommandNixPrefetchGit identifies the nix-prefetch-git helper shipped with nixpkgs.
const CommandNixPrefetchGit CommandName = CommandName(commandNixPrefetchGitStringConstant)

// CommandDetails describes the arguments and environment for a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}
