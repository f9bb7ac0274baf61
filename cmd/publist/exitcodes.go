package main

// Exit codes used by the publist CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (runtime failure)
	ExitUsageError  = 2 // Missing credentials or invalid arguments
	ExitConfigError = 3 // Configuration error
	ExitDataError   = 4 // Cache verification found broken files
)
