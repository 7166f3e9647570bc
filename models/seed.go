package models

import "fmt"

const demoImage = "https://placehold.co/600x400/png"

// DemoComplaints returns the complaints a fresh store is seeded with. Their
// like sets are filled with placeholder residents so Likes matches LikedBy.
func DemoComplaints() Complaints {
	return Complaints{
		demoComplaint("Power outage in downtown area since 3 hours", "John Doe", "2023-07-10", 42,
			RiskHigh, CategoryElectricity, Location{Lat: 40.7128, Lng: -74.0060}),
		demoComplaint("Large pothole on Main Street causing traffic issues", "Jane Smith", "2023-07-09", 28,
			RiskHigh, CategoryRoad, Location{Lat: 40.7129, Lng: -74.0062}),
		demoComplaint("Garbage not collected for past week on Oak Avenue", "Michael Brown", "2023-07-08", 15,
			RiskLow, CategoryCleanliness, Location{Lat: 40.7130, Lng: -74.0058}),
	}
}

func demoComplaint(desc, user, date string, likes int, risk Risk, cat Category, loc Location) Complaint {
	likedBy := make([]string, likes)
	for i := range likedBy {
		likedBy[i] = fmt.Sprintf("demo-resident-%02d", i+1)
	}
	return Complaint{
		Description: desc,
		Image:       demoImage,
		Location:    loc,
		User:        user,
		Date:        date,
		Likes:       likes,
		LikedBy:     likedBy,
		Comments:    []Comment{},
		Risk:        risk,
		Category:    cat,
		Status:      StatusReported,
	}
}
