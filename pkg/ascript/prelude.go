// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package ascript

import "autonomine.net/ascript/internal/stdlib"

// DefaultPrelude contains the callables that are automatically loaded
// unless -no-prelude is specified.
var DefaultPrelude = stdlib.Prelude
