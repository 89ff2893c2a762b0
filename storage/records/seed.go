package records

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/ratiba/core"
)

type seedUser struct {
	id, name, email, password, role, studentID, department string
}

var (
	defaultUsers = []seedUser{
		{"1", "Admin User", "admin@college.edu", "admin123", "admin", "ADM001", "Administration"},
		{"2", "Dr. John Smith", "john.smith@college.edu", "teacher123", "teacher", "TCH001", "Computer Science"},
		{"3", "Alice Johnson", "alice@student.edu", "student123", "student", "CS2021001", "Computer Science"},
	}

	defaultTeachers = []core.Record{
		{"id": "2", "name": "Dr. John Smith", "email": "john.smith@college.edu", "department": "Computer Science", "specialization": "Data Structures & Algorithms", "phone": "+1-555-0101"},
		{"id": "4", "name": "Prof. Sarah Wilson", "email": "sarah.wilson@college.edu", "department": "Computer Science", "specialization": "Database Systems", "phone": "+1-555-0102"},
		{"id": "5", "name": "Dr. Michael Brown", "email": "michael.brown@college.edu", "department": "Mathematics", "specialization": "Calculus & Linear Algebra", "phone": "+1-555-0103"},
	}

	defaultClasses = []core.Record{
		{"id": "1", "subject": "Data Structures", "teacherId": "2", "room": "CS-101", "day": "Monday", "startTime": "09:00", "endTime": "10:30", "department": "Computer Science", "type": "lecture"},
		{"id": "2", "subject": "Database Systems", "teacherId": "4", "room": "CS-102", "day": "Monday", "startTime": "11:00", "endTime": "12:30", "department": "Computer Science", "type": "lecture"},
		{"id": "3", "subject": "Calculus I", "teacherId": "5", "room": "MATH-201", "day": "Tuesday", "startTime": "09:00", "endTime": "10:30", "department": "Computer Science", "type": "lecture"},
		{"id": "4", "subject": "Data Structures Lab", "teacherId": "2", "room": "CS-LAB1", "day": "Wednesday", "startTime": "14:00", "endTime": "16:00", "department": "Computer Science", "type": "lab"},
		{"id": "5", "subject": "Database Systems", "teacherId": "4", "room": "CS-102", "day": "Thursday", "startTime": "10:00", "endTime": "11:30", "department": "Computer Science", "type": "lecture"},
		{"id": "6", "subject": "Algorithms", "teacherId": "2", "room": "CS-103", "day": "Friday", "startTime": "09:00", "endTime": "10:30", "department": "Computer Science", "type": "lecture"},
	}
)

func userRecords() ([]core.Record, error) {
	now := timeStr(time.Now())
	recs := make([]core.Record, 0, len(defaultUsers))
	for _, u := range defaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hashing password")
		}
		recs = append(recs, core.Record{
			"id":           u.id,
			"name":         u.name,
			"email":        u.email,
			"passwordHash": string(hash),
			"role":         u.role,
			"studentId":    u.studentID,
			"department":   u.department,
			"createdAt":    now,
			"lastLogin":    "",
		})
	}
	return recs, nil
}

// SeedDefaults writes the default users, teachers and classes into the collections that were never saved.
// It returns the names of the collections it seeded.
func SeedDefaults(ctx context.Context, store core.RecordStore) ([]string, error) {
	users, err := userRecords()
	if err != nil {
		return nil, err
	}

	seeded := make([]string, 0, 3)
	for _, c := range []struct {
		name    string
		records []core.Record
	}{
		{core.CollectionUsers, users},
		{core.CollectionTeachers, defaultTeachers},
		{core.CollectionClasses, defaultClasses},
	} {
		ok, err := store.Seed(ctx, c.name, c.records)
		if err != nil {
			return seeded, errors.Wrapf(err, "seeding %s", c.name)
		}
		if ok {
			seeded = append(seeded, c.name)
		}
	}
	return seeded, nil
}
