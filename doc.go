// Package mailmenu polls Gmail accounts for new mail by reusing the session
// already established in a local Chromium-family browser profile.
//
// It reads the browser's encrypted cookie store, decrypts the Gmail session
// cookies, and polls each discovered account's Atom inbox feed on a fixed
// interval, reporting new messages to a caller-supplied Listener. It reads
// local browser state and may trigger keychain/keyring prompts; it is meant
// as the core of a local status-bar style companion app, not for server
// contexts.
package mailmenu
