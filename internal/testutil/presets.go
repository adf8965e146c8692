package testutil

// WithStandardPeople adds the standard data set used across tests:
//
//	1 Ann Lee       female
//	2 Bob Stone     male
//	3 anna Marsh    female
//	4 Carl Anders   male
//	5 100% Dana_X   female
func (b *Builder) WithStandardPeople() *Builder {
	return b.
		WithPerson("Ann Lee").
		WithPerson("Bob Stone", Male()).
		WithPerson("anna Marsh").
		WithPerson("Carl Anders", Male()).
		WithPerson("100% Dana_X")
}
