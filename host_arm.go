// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledmisc

import (
	// Make sure the GPIO driver is registered.
	_ "periph.io/x/ledmisc/bcm283x"
)
