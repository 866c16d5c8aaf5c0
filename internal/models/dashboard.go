package models

import "time"

// DashboardCounts are the raw reads behind a dashboard snapshot.
// They are independent point-in-time counts, not a transactional snapshot.
type DashboardCounts struct {
	TotalUsers        int
	NewUsersThisMonth int
	NewUsersLastMonth int
	TotalCourses      int
	TotalModules      int
	TotalLessons      int
	Hierarchy         []CourseModuleLessonCount
	TotalProgress     int
	CompletedProgress int
	StudentMessages   int
	AdminMessages     int
	BotMessages       int
	TotalPosts        int
	TotalComments     int
	TotalLikes        int
	ActiveOffers      int
}

// Bottlenecks are the flags that ask an operator to act
type Bottlenecks struct {
	CoursesWithoutLessons bool `json:"coursesWithoutLessons"`
	UnansweredMessages    bool `json:"unansweredMessages"`
	NoActiveOffers        bool `json:"noActiveOffers"`
}

// Any reports whether at least one bottleneck is flagged
func (b Bottlenecks) Any() bool {
	return b.CoursesWithoutLessons || b.UnansweredMessages || b.NoActiveOffers
}

// DashboardSnapshot is the derived metrics shown on the admin dashboard
type DashboardSnapshot struct {
	TotalUsers            int         `json:"totalUsers"`
	NewUsersThisMonth     int         `json:"newUsersThisMonth"`
	NewUsersLastMonth     int         `json:"newUsersLastMonth"`
	UserGrowthRate        float64     `json:"userGrowthRate"`
	TotalCourses          int         `json:"totalCourses"`
	ActiveCourses         int         `json:"activeCourses"`
	CoursesWithoutLessons int         `json:"coursesWithoutLessons"`
	TotalModules          int         `json:"totalModules"`
	TotalLessons          int         `json:"totalLessons"`
	CompletionRate        int         `json:"completionRate"`
	TotalSupportMessages  int         `json:"totalSupportMessages"`
	UnansweredMessages    int         `json:"unansweredMessages"`
	TotalPosts            int         `json:"totalPosts"`
	TotalComments         int         `json:"totalComments"`
	TotalLikes            int         `json:"totalLikes"`
	EngagementRate        int         `json:"engagementRate"`
	ActiveOffers          int         `json:"activeOffers"`
	Bottlenecks           Bottlenecks `json:"bottlenecks"`
	GeneratedAt           time.Time   `json:"generatedAt"`
	Stale                 bool        `json:"stale"`
}
