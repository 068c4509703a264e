package valueobjects

import "fmt"

type AbsenceType string

const (
	AbsenceVacation AbsenceType = "vacation"
	AbsenceSick     AbsenceType = "sick"
	AbsenceCourse   AbsenceType = "course"
	AbsenceMeeting  AbsenceType = "meeting"
	AbsenceFlex     AbsenceType = "flex"
	AbsenceWFH      AbsenceType = "wfh"
	AbsenceOther    AbsenceType = "other"
)

var absenceTypeLabels = map[AbsenceType]string{
	AbsenceVacation: "Ferie",
	AbsenceSick:     "Sygdom",
	AbsenceCourse:   "Kursus",
	AbsenceMeeting:  "Møde/Konference",
	AbsenceFlex:     "Flex fri",
	AbsenceWFH:      "Arbejder hjemme",
	AbsenceOther:    "Andet",
}

func NewAbsenceType(s string) (AbsenceType, error) {
	t := AbsenceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid absence type: %s", s)
	}
	return t, nil
}

func (t AbsenceType) String() string {
	return string(t)
}

func (t AbsenceType) IsValid() bool {
	_, ok := absenceTypeLabels[t]
	return ok
}

func (t AbsenceType) Label() string {
	return absenceTypeLabels[t]
}
