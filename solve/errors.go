// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import "fmt"

// IntegrationError reports a failure during numerical integration,
// naming the system, the offending variable where one is known, and
// the simulation time at which the failure occurred.
type IntegrationError struct {
	System string  `desc:"name of the system being integrated"`
	Var    string  `desc:"full name of the offending variable, if known"`
	Time   float32 `desc:"simulation time of the failure"`
	Msg    string  `desc:"description of the failure"`
}

func (e *IntegrationError) Error() string {
	if e.Var != "" {
		return fmt.Sprintf("solve.IntegrationError: system: %s, var: %s, t: %g, %s", e.System, e.Var, e.Time, e.Msg)
	}
	return fmt.Sprintf("solve.IntegrationError: system: %s, t: %g, %s", e.System, e.Time, e.Msg)
}
