package simstore

import "github.com/agromart/client/internal/catalog"

// SeedProducts is the demo produce catalog.
func SeedProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Tomatoes", Description: "Vine-ripened greenhouse tomatoes", Price: 2.99, Category: "Vegetables", CategoryID: 1, Farmer: "Green Valley Farm", FarmerID: 1, Stock: 120, Unit: "kg", Status: catalog.StatusActive},
		{ID: 2, Name: "Potatoes", Description: "Washed table potatoes", Price: 1.49, Category: "Vegetables", CategoryID: 1, Farmer: "Green Valley Farm", FarmerID: 1, Stock: 300, Unit: "kg", Status: catalog.StatusActive},
		{ID: 3, Name: "Carrots", Description: "Sweet organic carrots", Price: 1.99, Category: "Vegetables", CategoryID: 1, Farmer: "Sunrise Organics", FarmerID: 2, Stock: 80, Unit: "kg", Status: catalog.StatusActive},
		{ID: 4, Name: "Apples", Description: "Crisp orchard apples", Price: 3.49, Category: "Fruits", CategoryID: 2, Farmer: "Hillside Orchard", FarmerID: 3, Stock: 150, Unit: "kg", Status: catalog.StatusActive},
		{ID: 5, Name: "Raw Honey", Description: "Unfiltered wildflower honey", Price: 8.99, Category: "Honey", CategoryID: 3, Farmer: "Sunrise Organics", FarmerID: 2, Stock: 40, Unit: "piece", Status: catalog.StatusActive},
		{ID: 6, Name: "Free-range Eggs", Description: "Dozen free-range eggs", Price: 4.25, Category: "Dairy & Eggs", CategoryID: 4, Farmer: "Meadow Coop", FarmerID: 4, Stock: 60, Unit: "piece", Status: catalog.StatusActive},
		{ID: 7, Name: "Fresh Milk", Description: "Whole milk, one liter", Price: 1.75, Category: "Dairy & Eggs", CategoryID: 4, Farmer: "Meadow Coop", FarmerID: 4, Stock: 90, Unit: "piece", Status: catalog.StatusActive},
		{ID: 8, Name: "Winter Wheat", Description: "Milling wheat, last season", Price: 0.89, Category: "Grains", CategoryID: 5, Farmer: "Hillside Orchard", FarmerID: 3, Stock: 0, Unit: "kg", Status: catalog.StatusActive},
		{ID: 9, Name: "Heirloom Pumpkins", Description: "Out of season", Price: 5.50, Category: "Vegetables", CategoryID: 1, Farmer: "Green Valley Farm", FarmerID: 1, Stock: 25, Unit: "piece", Status: catalog.StatusInactive},
	}
}
