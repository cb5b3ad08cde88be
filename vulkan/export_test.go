package vulkan

import "io"

// SetDiagnosticsSink redirects debug messenger output until restore is called.
func SetDiagnosticsSink(w io.Writer) (restore func()) {
	prev := diagnosticsSink
	diagnosticsSink = w
	return func() { diagnosticsSink = prev }
}
