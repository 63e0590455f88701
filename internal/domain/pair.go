package domain

// Pair is the start/end input of a game or daily challenge. Each side is
// exactly one movie or one person, which gives the four legal shapes
// movie->movie, movie->person, person->movie and person->person.
type Pair struct {
	Start Ref `json:"start"`
	End   Ref `json:"end"`
}

func NewPair(start, end Ref) (Pair, error) {
	if err := validateRef("start", start); err != nil {
		return Pair{}, err
	}
	if err := validateRef("end", end); err != nil {
		return Pair{}, err
	}
	if start.Equal(end) {
		return Pair{}, Validation("start and end must be different entities")
	}
	return Pair{Start: start, End: end}, nil
}

// PairFromIDs builds a Pair from the four nullable id columns used by
// forms and storage.
func PairFromIDs(startMovieID, startPersonID, endMovieID, endPersonID *int64) (Pair, error) {
	start, err := sideFromIDs("start", startMovieID, startPersonID)
	if err != nil {
		return Pair{}, err
	}
	end, err := sideFromIDs("end", endMovieID, endPersonID)
	if err != nil {
		return Pair{}, err
	}
	return NewPair(start, end)
}

// Columns projects the pair onto start movie, start person, end movie and
// end person ids; exactly one per side is non-nil.
func (p Pair) Columns() (startMovieID, startPersonID, endMovieID, endPersonID *int64) {
	startMovieID, startPersonID = refColumns(p.Start)
	endMovieID, endPersonID = refColumns(p.End)
	return
}

func refColumns(r Ref) (movieID, personID *int64) {
	id := r.ID
	if r.Kind == KindMovie {
		return &id, nil
	}
	return nil, &id
}

func sideFromIDs(side string, movieID, personID *int64) (Ref, error) {
	switch {
	case movieID != nil && personID != nil:
		return Ref{}, Validation(side + " must be either a movie or a person, not both")
	case movieID != nil:
		return Ref{Kind: KindMovie, ID: *movieID}, nil
	case personID != nil:
		return Ref{Kind: KindPerson, ID: *personID}, nil
	}
	return Ref{}, Validation(side + " is required")
}

func validateRef(side string, r Ref) error {
	if !r.Kind.Valid() {
		return Validation(side + " has an unknown kind")
	}
	if r.ID <= 0 {
		return Validation(side + " id must be positive")
	}
	return nil
}
