package prompts

import _ "embed"

// Embedded prompt files

//go:embed tutor_system.txt
var tutorSystem string

//go:embed tutor.txt
var tutor string

func TutorSystem() string { return tutorSystem }

// Tutor is a text/template over types.TutorContext fields.
func Tutor() string { return tutor }
