package cli

// Version identifies released builds of both binaries.
const Version = "0.8.1"
