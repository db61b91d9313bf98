package combat

// PartFromEntropy maps one random byte to a body part. The byte is divided by
// 50 and an index past Legs is pulled back by 4, so the distribution is
// deliberately not uniform: 250..255 land on Neck.
func PartFromEntropy(b byte) BodyPart {
	idx := b / 50
	if idx > uint8(Legs) {
		idx -= uint8(Legs)
	}
	return BodyPart(idx)
}

// OpponentResponse derives the automated side's move from two independent
// random bytes.
func OpponentResponse(attackSeed, protectSeed byte) OpponentMove {
	return OpponentMove{
		Attack:  PartFromEntropy(attackSeed),
		Protect: PartFromEntropy(protectSeed),
	}
}
