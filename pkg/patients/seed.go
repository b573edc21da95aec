package patients

import "context"

// SeedPatients returns the demo patient list used to populate empty stores.
func SeedPatients() []Patient {
	age := func(v int) *int { return &v }
	return []Patient{
		{Name: "John Smith", Age: age(45), Department: "Cardiology", Status: "Active", LastVisit: "2024-01-15", Phone: "(555) 123-4567", Condition: "Hypertension"},
		{Name: "Sarah Johnson", Age: age(32), Department: "Dermatology", Status: "Follow-up", LastVisit: "2024-01-12", Phone: "(555) 987-6543", Condition: "Eczema"},
		{Name: "Michael Brown", Age: age(67), Department: "Orthopedics", Status: "Discharged", LastVisit: "2024-01-10", Phone: "(555) 456-7890", Condition: "Knee Replacement"},
		{Name: "Emily Davis", Age: age(28), Department: "Pediatrics", Status: "Active", LastVisit: "2024-01-14", Phone: "(555) 321-0987", Condition: "Routine Checkup"},
		{Name: "Robert Wilson", Age: age(55), Department: "Neurology", Status: "Critical", LastVisit: "2024-01-16", Phone: "(555) 654-3210", Condition: "Migraine"},
	}
}

// Seed inserts SeedPatients when the store is empty. It reports how many
// records were inserted.
func Seed(ctx context.Context, s *Store) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	inserted := 0
	for _, p := range SeedPatients() {
		if _, err := s.Insert(ctx, p); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
