package models

import "time"

// PlaceholderProjects returns the demo entries shown when the data service has no
// projects yet. A fresh slice is returned on every call.
func PlaceholderProjects() []Project {
	return []Project{
		{
			ID: "1",
			Draft: Draft{
				Title:           "E-Commerce Website",
				Slug:            "ecommerce-website",
				Category:        "Web Development",
				Description:     "A fully functional e-commerce platform with shopping cart, payment integration, and admin dashboard.",
				LongDescription: "This project involved building a complete e-commerce solution from the ground up. The website features product browsing, user accounts, shopping cart functionality, checkout process with Stripe integration, and a comprehensive admin dashboard for managing products, orders, and customers.\n\nThe front-end was built with React and Redux for state management, while the back-end uses Node.js with Express and MongoDB. The site is fully responsive and optimized for all devices.",
				Tags:            []string{"React", "Node.js", "MongoDB", "Express", "Redux"},
				FeaturedImage:   "https://via.placeholder.com/800x600?text=E-Commerce+Website",
				Screenshots: []string{
					"https://via.placeholder.com/1200x800?text=Screenshot+1",
					"https://via.placeholder.com/1200x800?text=Screenshot+2",
					"https://via.placeholder.com/1200x800?text=Screenshot+3",
				},
				ClientName:     "RetailPlus Inc.",
				CompletionDate: "2023-02-15",
				ProjectURL:     "https://example.com",
				GithubURL:      "https://github.com/example/project",
				Featured:       true,
			},
			CreatedAt: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "2",
			Draft: Draft{
				Title:           "Finance Dashboard App",
				Slug:            "finance-dashboard",
				Category:        "Web Application",
				Description:     "Interactive financial dashboard with data visualization, real-time updates, and personalized insights.",
				LongDescription: "The Finance Dashboard App is a comprehensive financial analytics tool that provides users with visualizations of their financial data, real-time updates of market conditions, and personalized insights based on spending habits and investment performance.\n\nThe application uses React for the front-end interface, with Chart.js and D3.js for data visualization. The back-end is built on Node.js and connects to various financial APIs to gather real-time data. User authentication is handled securely, and all sensitive data is encrypted.",
				Tags:            []string{"React", "Chart.js", "D3.js", "Node.js", "Financial APIs"},
				FeaturedImage:   "https://via.placeholder.com/800x600?text=Finance+Dashboard",
				Screenshots: []string{
					"https://via.placeholder.com/1200x800?text=Dashboard+Overview",
					"https://via.placeholder.com/1200x800?text=Analytics+View",
					"https://via.placeholder.com/1200x800?text=Mobile+Interface",
				},
				ClientName:     "FinanceTrack LLC",
				CompletionDate: "2022-11-20",
				ProjectURL:     "https://example.com/finance",
				GithubURL:      "https://github.com/example/finance-dashboard",
				Featured:       true,
			},
			CreatedAt: time.Date(2022, 9, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "3",
			Draft: Draft{
				Title:           "Health & Fitness App",
				Slug:            "health-fitness-app",
				Category:        "Mobile App",
				Description:     "A comprehensive health and fitness mobile application with workout tracking, meal planning, and progress analytics.",
				LongDescription: "The Health & Fitness App is designed to be an all-in-one solution for health and fitness enthusiasts. It includes features for tracking workouts, planning meals, setting goals, and monitoring progress through various analytics and visualizations.",
				Tags:            []string{"React Native", "Firebase", "Mobile Development", "Health Tech"},
				FeaturedImage:   "https://via.placeholder.com/800x600?text=Fitness+App",
				Screenshots: []string{
					"https://via.placeholder.com/1200x800?text=App+Home+Screen",
					"https://via.placeholder.com/1200x800?text=Workout+Tracking",
					"https://via.placeholder.com/1200x800?text=Progress+Analytics",
				},
				ClientName:     "FitLife Health",
				CompletionDate: "2023-04-10",
				ProjectURL:     "https://example.com/fitness-app",
				GithubURL:      "https://github.com/example/fitness-app",
			},
			CreatedAt: time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
		},
	}
}
