package session

import "github.com/solarflux/fixengine/lib/fix/message"

// Identity is an alias of message.Identity; see that package for why the
// type lives there instead of here.
type Identity = message.Identity
