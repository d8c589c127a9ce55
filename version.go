package ch

// Version identifies this client build to the server's ClientInfo.
type Version struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// clientVersion is the build identity sent during the handshake and
// embedded in every Query's ClientInfo.
var clientVersion = Version{
	Name:  "ch-native",
	Major: 1,
	Minor: 0,
	Patch: 0,
}

// clientProtocolVersion is the highest revision this client speaks;
// the negotiated session revision is min(this, the server's).
const clientProtocolVersion = 54460
