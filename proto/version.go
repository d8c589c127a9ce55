package proto

// Version identifies a client or server build: a display name plus
// major/minor/patch numbers.
type Version struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// ServerHello is the handshake response sent once per session.
type ServerHello struct {
	Name            string
	Major           int
	Minor           int
	Patch           int
	Revision        int
	Timezone        string
	DisplayName     string
}

// DecodeAware reads a ServerHello. Once the server's revision is read,
// the optional fields (timezone, display name, patch) are gated on
// min(server revision, clientRevision); without a patch field, Patch is
// set to the server revision.
func (s *ServerHello) DecodeAware(r *Reader, clientRevision int) error {
	name, err := r.Str()
	if err != nil {
		return err
	}
	major, err := r.Int()
	if err != nil {
		return err
	}
	minor, err := r.Int()
	if err != nil {
		return err
	}
	revision, err := r.Int()
	if err != nil {
		return err
	}
	s.Name, s.Major, s.Minor, s.Revision = name, major, minor, revision

	negotiated := revision
	if clientRevision < negotiated {
		negotiated = clientRevision
	}

	if FeatureServerTimezone.In(negotiated) {
		tz, err := r.Str()
		if err != nil {
			return err
		}
		s.Timezone = tz
	}
	if FeatureDisplayName.In(negotiated) {
		dn, err := r.Str()
		if err != nil {
			return err
		}
		s.DisplayName = dn
	}
	if FeatureVersionPatch.In(negotiated) {
		patch, err := r.Int()
		if err != nil {
			return err
		}
		s.Patch = patch
	} else {
		s.Patch = revision
	}
	return nil
}
